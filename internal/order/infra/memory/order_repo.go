package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rmaia/farmadelivery/internal/order/app"
	"github.com/rmaia/farmadelivery/internal/order/domain"
)

type OrderRepo struct {
	mu     sync.RWMutex
	nextID int64
	m      map[int64]domain.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{m: make(map[int64]domain.Order)}
}

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.m[order.ID] = clone(order)
	return order, nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.m[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	return clone(o), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.m[id]
	if !ok {
		return false, app.ErrNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	r.m[id] = o
	return true, nil
}

func (r *OrderRepo) ListByEstablishment(ctx context.Context, establishmentID int64, status domain.Status, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.m {
		if o.EstablishmentID != establishmentID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepo) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.m {
		if o.Status == domain.StatusAguardandoPagamento && o.CreatedAt.Before(cutoff) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func clone(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items

	if o.PrescriptionIDs != nil {
		ids := make([]int64, len(o.PrescriptionIDs))
		copy(ids, o.PrescriptionIDs)
		o.PrescriptionIDs = ids
	}
	return o
}
