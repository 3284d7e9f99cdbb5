package adapter

import (
	"context"

	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetEntry(ctx context.Context, entryID int64) (cartapp.Entry, error) {
	e, err := r.svc.GetEntry(ctx, entryID)
	if err != nil {
		return cartapp.Entry{}, err
	}

	return cartapp.Entry{
		ID:              e.ID,
		EstablishmentID: e.EstablishmentID,
		ProductID:       e.ProductID,
		Name:            e.Name,
		PriceAmount:     e.PriceAmount,
	}, nil
}
