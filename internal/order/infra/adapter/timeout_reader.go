package adapter

import (
	"context"
	"time"

	accountapp "github.com/rmaia/farmadelivery/internal/account/app"
)

// EstablishmentTimeoutReader exposes each establishment's payment timeout
// override to the order lifecycle. A zero return means the establishment
// has no override.
type EstablishmentTimeoutReader struct {
	svc *accountapp.Service
}

func NewEstablishmentTimeoutReader(svc *accountapp.Service) *EstablishmentTimeoutReader {
	return &EstablishmentTimeoutReader{svc: svc}
}

func (r *EstablishmentTimeoutReader) PaymentTimeout(ctx context.Context, establishmentID int64) (time.Duration, error) {
	acc, err := r.svc.Establishment(ctx, establishmentID)
	if err != nil {
		return 0, err
	}
	return acc.Establishment.PaymentTimeout, nil
}
