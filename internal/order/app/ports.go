package app

import (
	"context"
	"time"

	"github.com/rmaia/farmadelivery/internal/order/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	// UpdateStatus moves the order from one status to another atomically.
	// It reports false when the order was no longer in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error)
	ListByEstablishment(ctx context.Context, establishmentID int64, status domain.Status, limit int) ([]domain.Order, error)
	ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}

// StockReleaser is the slice of the stock ledger the lifecycle needs for
// compensation when an order is cancelled.
type StockReleaser interface {
	Restock(ctx context.Context, entryID int64, qty int32) error
}

// TimeoutPolicy resolves an establishment's payment timeout override.
// Zero means the establishment has none and the service-wide default
// applies.
type TimeoutPolicy interface {
	PaymentTimeout(ctx context.Context, establishmentID int64) (time.Duration, error)
}

// StatusEvent is published on every successful lifecycle transition.
type StatusEvent struct {
	EventID   string        `json:"event_id"`
	OrderID   int64         `json:"order_id"`
	From      domain.Status `json:"from"`
	To        domain.Status `json:"to"`
	CreatedAt time.Time     `json:"created_at"`
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusEvent) error
}
