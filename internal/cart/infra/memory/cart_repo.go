package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rmaia/farmadelivery/internal/cart/app"
	"github.com/rmaia/farmadelivery/internal/cart/domain"
)

type CartRepo struct {
	mu       sync.RWMutex
	nextID   int64
	byClient map[int64]domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{byClient: make(map[int64]domain.Cart)}
}

func (r *CartRepo) GetByClient(ctx context.Context, clientID int64) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.byClient[clientID]
	if !ok {
		return domain.Cart{}, app.ErrNotFound
	}
	return clone(cart), nil
}

func (r *CartRepo) Create(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byClient[cart.ClientID]; ok {
		return clone(existing), nil
	}

	r.nextID++
	cart.ID = r.nextID
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	r.byClient[cart.ClientID] = clone(cart)
	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byClient[cart.ClientID]; !ok {
		return app.ErrNotFound
	}
	cart.UpdatedAt = time.Now().UTC()
	r.byClient[cart.ClientID] = clone(cart)
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, cart := range r.byClient {
		if cart.ID == cartID {
			cart.Items = nil
			cart.EstablishmentID = 0
			cart.UpdatedAt = time.Now().UTC()
			r.byClient[clientID] = cart
			return nil
		}
	}
	return app.ErrNotFound
}

func clone(c domain.Cart) domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
