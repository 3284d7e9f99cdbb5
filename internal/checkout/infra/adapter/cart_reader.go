package adapter

import (
	"context"

	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	checkoutdomain "github.com/rmaia/farmadelivery/internal/checkout/domain"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, clientID int64) (checkoutapp.Cart, error) {
	cart, err := r.svc.GetCart(ctx, clientID)
	if err != nil {
		return checkoutapp.Cart{}, err
	}

	lines := make([]checkoutdomain.Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, checkoutdomain.Line{
			EntryID:    it.EntryID,
			ProductID:  it.ProductID,
			Name:       it.Name,
			UnitAmount: it.UnitAmount,
			Quantity:   it.Quantity,
		})
	}

	return checkoutapp.Cart{
		ID:              cart.ID,
		ClientID:        cart.ClientID,
		EstablishmentID: cart.EstablishmentID,
		Lines:           lines,
	}, nil
}

func (r *CartServiceReader) Clear(ctx context.Context, clientID int64) error {
	return r.svc.Clear(ctx, clientID)
}
