package domain

import "fmt"

// InvalidPriceError reports why a proposed selling price was rejected.
type InvalidPriceError struct {
	ProposedAmount  int64
	ReferenceAmount *int64
	Reason          string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %d: %s", e.ProposedAmount, e.Reason)
}

// ValidatePrice enforces the regulated ceiling on a proposed selling price.
// A price must be positive, and when the reference price is known it must
// not exceed it. When the reference price is unknown the price is not
// editable at all, so every proposed change is rejected.
func ValidatePrice(proposed int64, reference *int64) error {
	if proposed <= 0 {
		return &InvalidPriceError{ProposedAmount: proposed, Reason: "price must be greater than zero"}
	}
	if reference == nil {
		return &InvalidPriceError{ProposedAmount: proposed, Reason: "reference price unknown, price is not editable"}
	}
	if proposed > *reference {
		return &InvalidPriceError{
			ProposedAmount:  proposed,
			ReferenceAmount: reference,
			Reason:          fmt.Sprintf("price exceeds regulated ceiling %d", *reference),
		}
	}
	return nil
}
