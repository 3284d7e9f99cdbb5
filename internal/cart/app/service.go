package app

import (
	"context"
	"errors"

	"github.com/rmaia/farmadelivery/internal/cart/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo    CartRepo
	catalog CatalogReader
}

func NewService(repo CartRepo, catalog CatalogReader) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
	}
}

func (s *Service) GetCart(ctx context.Context, clientID int64) (domain.Cart, error) {
	return s.repo.GetByClient(ctx, clientID)
}

func (s *Service) GetOrCreate(ctx context.Context, clientID int64) (domain.Cart, error) {
	cart, err := s.repo.GetByClient(ctx, clientID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return domain.Cart{}, err
	}
	return s.repo.Create(ctx, domain.Cart{ClientID: clientID})
}

// AddItem captures the entry's current price into a new line, or sums
// quantities when the entry is already in the cart. Entries from a second
// establishment are rejected.
func (s *Service) AddItem(ctx context.Context, clientID int64, entryID int64, qty int32) (domain.Cart, error) {
	if qty <= 0 {
		return domain.Cart{}, ErrInvalidInput
	}

	entry, err := s.catalog.GetEntry(ctx, entryID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetOrCreate(ctx, clientID)
	if err != nil {
		return domain.Cart{}, err
	}

	if len(cart.Items) > 0 && cart.EstablishmentID != entry.EstablishmentID {
		return domain.Cart{}, &domain.CrossEstablishmentError{
			CartEstablishmentID:  cart.EstablishmentID,
			EntryEstablishmentID: entry.EstablishmentID,
		}
	}

	cart.EstablishmentID = entry.EstablishmentID
	cart.Merge(domain.CartItem{
		EntryID:    entry.ID,
		ProductID:  entry.ProductID,
		Name:       entry.Name,
		UnitAmount: entry.PriceAmount,
		Quantity:   qty,
	})

	if err := s.repo.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// SetQuantity updates a line; zero removes it.
func (s *Service) SetQuantity(ctx context.Context, clientID int64, entryID int64, qty int32) (domain.Cart, error) {
	if qty < 0 {
		return domain.Cart{}, ErrInvalidInput
	}
	if qty == 0 {
		return s.RemoveItem(ctx, clientID, entryID)
	}

	cart, err := s.repo.GetByClient(ctx, clientID)
	if err != nil {
		return domain.Cart{}, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].EntryID == entryID {
			cart.Items[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return domain.Cart{}, ErrNotFound
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, clientID int64, entryID int64) (domain.Cart, error) {
	cart, err := s.repo.GetByClient(ctx, clientID)
	if err != nil {
		return domain.Cart{}, err
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.EntryID != entryID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	if len(cart.Items) == 0 {
		cart.EstablishmentID = 0
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// Clear empties the cart; checkout calls this exactly once on success.
func (s *Service) Clear(ctx context.Context, clientID int64) error {
	cart, err := s.repo.GetByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}
