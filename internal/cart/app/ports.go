package app

import (
	"context"

	"github.com/rmaia/farmadelivery/internal/cart/domain"
)

type CartRepo interface {
	GetByClient(ctx context.Context, clientID int64) (domain.Cart, error)
	Create(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context, cartID int64) error
}

// CatalogReader is the slice of the catalog the cart needs when capturing a
// line: current price and owning establishment.
type CatalogReader interface {
	GetEntry(ctx context.Context, entryID int64) (Entry, error)
}

type Entry struct {
	ID              int64
	EstablishmentID int64
	ProductID       int64
	Name            string
	PriceAmount     int64
}
