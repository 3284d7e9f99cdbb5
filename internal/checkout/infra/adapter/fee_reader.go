package adapter

import (
	"context"

	accountapp "github.com/rmaia/farmadelivery/internal/account/app"
	checkoutdomain "github.com/rmaia/farmadelivery/internal/checkout/domain"
)

// FeePolicyReader resolves an establishment's delivery fee policy. An
// establishment that never configured one gets the service-wide defaults.
type FeePolicyReader struct {
	svc      *accountapp.Service
	defaults checkoutdomain.FeePolicy
}

func NewFeePolicyReader(svc *accountapp.Service, defaults checkoutdomain.FeePolicy) *FeePolicyReader {
	return &FeePolicyReader{svc: svc, defaults: defaults}
}

func (r *FeePolicyReader) FeePolicy(ctx context.Context, establishmentID int64) (checkoutdomain.FeePolicy, error) {
	acc, err := r.svc.Establishment(ctx, establishmentID)
	if err != nil {
		return checkoutdomain.FeePolicy{}, err
	}

	fees := acc.Establishment.Fees
	if fees.DeliveryFeeAmount == 0 && fees.FreeDeliveryAboveAmount == 0 {
		return r.defaults, nil
	}
	return checkoutdomain.FeePolicy{
		DeliveryFeeAmount:       fees.DeliveryFeeAmount,
		FreeDeliveryAboveAmount: fees.FreeDeliveryAboveAmount,
	}, nil
}
