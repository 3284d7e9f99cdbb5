package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rmaia/farmadelivery/internal/catalog/app"
	"github.com/rmaia/farmadelivery/internal/catalog/domain"
)

// EntryRepo is an in-memory catalog store used in tests and single-node mode.
type EntryRepo struct {
	mu     sync.RWMutex
	nextID int64
	m      map[int64]domain.Entry
}

func NewEntryRepo() *EntryRepo {
	return &EntryRepo{m: make(map[int64]domain.Entry)}
}

func (r *EntryRepo) Create(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.m[e.ID] = e
	return e, nil
}

func (r *EntryRepo) Get(ctx context.Context, id int64) (domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.m[id]
	if !ok {
		return domain.Entry{}, app.ErrNotFound
	}
	return e, nil
}

func (r *EntryRepo) ListByEstablishment(ctx context.Context, establishmentID int64, limit int, cursor int64) ([]domain.Entry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []domain.Entry
	for _, e := range r.m {
		if e.EstablishmentID == establishmentID && e.ID > cursor {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if len(all) > limit {
		all = all[:limit]
	}

	var next int64
	if len(all) == limit {
		next = all[len(all)-1].ID
	}
	return all, next, nil
}

func (r *EntryRepo) UpdatePrice(ctx context.Context, id int64, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.m[id]
	if !ok {
		return app.ErrNotFound
	}
	e.PriceAmount = amount
	e.UpdatedAt = time.Now().UTC()
	r.m[id] = e
	return nil
}

func (r *EntryRepo) SetStock(ctx context.Context, id int64, stock int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.m[id]
	if !ok {
		return app.ErrNotFound
	}
	e.Stock = stock
	e.UpdatedAt = time.Now().UTC()
	r.m[id] = e
	return nil
}
