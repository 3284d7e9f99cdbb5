package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rmaia/farmadelivery/internal/cart/domain"
)

type fakeCartRepo struct {
	nextID int64
	carts  map[int64]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[int64]domain.Cart)}
}

func (f *fakeCartRepo) GetByClient(ctx context.Context, clientID int64) (domain.Cart, error) {
	cart, ok := f.carts[clientID]
	if !ok {
		return domain.Cart{}, ErrNotFound
	}
	return cart, nil
}

func (f *fakeCartRepo) Create(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	f.nextID++
	cart.ID = f.nextID
	f.carts[cart.ClientID] = cart
	return cart, nil
}

func (f *fakeCartRepo) Save(ctx context.Context, cart domain.Cart) error {
	f.carts[cart.ClientID] = cart
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, cartID int64) error {
	for clientID, cart := range f.carts {
		if cart.ID == cartID {
			cart.Items = nil
			cart.EstablishmentID = 0
			f.carts[clientID] = cart
		}
	}
	return nil
}

type fakeCatalog struct {
	entries map[int64]Entry
}

func (f *fakeCatalog) GetEntry(ctx context.Context, entryID int64) (Entry, error) {
	e, ok := f.entries[entryID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func newTestService() *Service {
	catalog := &fakeCatalog{entries: map[int64]Entry{
		1: {ID: 1, EstablishmentID: 10, ProductID: 100, Name: "Dipirona 500mg", PriceAmount: 500},
		2: {ID: 2, EstablishmentID: 10, ProductID: 101, Name: "Vitamina C 1g", PriceAmount: 2000},
		3: {ID: 3, EstablishmentID: 20, ProductID: 100, Name: "Dipirona 500mg", PriceAmount: 480},
	}}
	return NewService(newFakeCartRepo(), catalog)
}

func TestAddItemMergesLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.AddItem(ctx, 7, 1, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, 7, 1, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("lines: got %d want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("quantity: got %d want 3", cart.Items[0].Quantity)
	}
}

func TestAddItemRejectsSecondEstablishment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.AddItem(ctx, 7, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.AddItem(ctx, 7, 3, 1)
	var crossErr *domain.CrossEstablishmentError
	if !errors.As(err, &crossErr) {
		t.Fatalf("expected CrossEstablishmentError, got %v", err)
	}
	if crossErr.CartEstablishmentID != 10 || crossErr.EntryEstablishmentID != 20 {
		t.Fatalf("error detail: got %+v", crossErr)
	}
}

func TestSubtotalRecomputedFromLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// 3 x 5.00 + 1 x 20.00 = 35.00
	if _, err := svc.AddItem(ctx, 7, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem(ctx, 7, 2, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := cart.SubtotalAmount(); got != 3500 {
		t.Fatalf("subtotal: got %d want 3500", got)
	}

	cart, err = svc.SetQuantity(ctx, 7, 1, 1)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if got := cart.SubtotalAmount(); got != 2500 {
		t.Fatalf("subtotal after update: got %d want 2500", got)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.AddItem(ctx, 7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.SetQuantity(ctx, 7, 1, 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("lines: got %d want 0", len(cart.Items))
	}

	// the empty cart accepts another establishment again
	if _, err := svc.AddItem(ctx, 7, 3, 1); err != nil {
		t.Fatalf("add after empty: %v", err)
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.AddItem(ctx, 7, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, 7, 2, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
