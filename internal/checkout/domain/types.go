package domain

import (
	"fmt"
	"time"
)

// Line is a cart line as checkout sees it: price already frozen at add-time.
type Line struct {
	EntryID    int64
	ProductID  int64
	Name       string
	UnitAmount int64
	Quantity   int32
}

// FeePolicy mirrors the establishment's delivery pricing.
type FeePolicy struct {
	DeliveryFeeAmount       int64
	FreeDeliveryAboveAmount int64
}

func (p FeePolicy) Fee(subtotalAmount int64) int64 {
	if p.FreeDeliveryAboveAmount > 0 && subtotalAmount >= p.FreeDeliveryAboveAmount {
		return 0
	}
	return p.DeliveryFeeAmount
}

// UnavailableLine identifies one cart line that could not be reserved.
type UnavailableLine struct {
	EntryID   int64
	Requested int32
	Available int32
}

// AssemblyError aborts a checkout, itemizing every line that failed. No
// stock changes survive: the assembler released everything it had reserved.
type AssemblyError struct {
	Lines []UnavailableLine
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("checkout aborted: %d line(s) unavailable", len(e.Lines))
}

// Receipt summarizes a successful checkout.
type Receipt struct {
	OrderID           int64
	Status            string
	SubtotalAmount    int64
	DeliveryFeeAmount int64
	TotalAmount       int64
	CreatedAt         time.Time
}
