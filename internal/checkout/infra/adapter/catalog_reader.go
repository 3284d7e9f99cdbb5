package adapter

import (
	"context"

	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetEntry(ctx context.Context, entryID int64) (checkoutapp.Entry, error) {
	e, err := r.svc.GetEntry(ctx, entryID)
	if err != nil {
		return checkoutapp.Entry{}, err
	}

	return checkoutapp.Entry{
		ID:              e.ID,
		EstablishmentID: e.EstablishmentID,
		Name:            e.Name,
	}, nil
}
