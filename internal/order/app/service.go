package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rmaia/farmadelivery/internal/order/domain"
)

var ErrNotFound = errors.New("not found")

// Service drives orders through the fulfillment lifecycle. Transitions are
// fed by asynchronous external events (payment webhook, delivery tracking)
// and are idempotent: a duplicate event finds the order already in the
// target status and becomes a no-op.
type Service struct {
	repo     OrderRepo
	stock    StockReleaser
	events   EventPublisher
	timeouts TimeoutPolicy
	log      *slog.Logger
}

func NewService(repo OrderRepo, stock StockReleaser, events EventPublisher, timeouts TimeoutPolicy, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:     repo,
		stock:    stock,
		events:   events,
		timeouts: timeouts,
		log:      log,
	}
}

// Create persists a freshly assembled order. Monetary invariants are
// checked here one last time; after this point only Status ever changes.
func (s *Service) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.Status = domain.StatusAguardandoPagamento
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, StatusEvent{
		EventID:   uuid.NewString(),
		OrderID:   created.ID,
		To:        created.Status,
		CreatedAt: created.CreatedAt,
	})
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

// ConfirmPayment handles the payment gateway's confirmation event.
func (s *Service) ConfirmPayment(ctx context.Context, orderID int64) (domain.Order, error) {
	order, _, err := s.transition(ctx, orderID, domain.StatusEmSeparacao)
	return order, err
}

// Dispatch handles the courier pickup event.
func (s *Service) Dispatch(ctx context.Context, orderID int64) (domain.Order, error) {
	order, _, err := s.transition(ctx, orderID, domain.StatusEmRota)
	return order, err
}

// Deliver handles the delivery confirmation event.
func (s *Service) Deliver(ctx context.Context, orderID int64) (domain.Order, error) {
	order, _, err := s.transition(ctx, orderID, domain.StatusEntregue)
	return order, err
}

// Cancel moves the order to its terminal failure status and restores the
// stock committed at checkout, item by item. A duplicate cancel finds the
// order already cancelled and must not restock a second time.
func (s *Service) Cancel(ctx context.Context, orderID int64) (domain.Order, error) {
	order, moved, err := s.transition(ctx, orderID, domain.StatusCancelado)
	if err != nil {
		return domain.Order{}, err
	}
	if !moved {
		return order, nil
	}

	for _, it := range order.Items {
		if err := s.stock.Restock(ctx, it.EntryID, it.Quantity); err != nil {
			return order, err
		}
	}
	return order, nil
}

// ExpireStalePayments cancels every order that has been waiting for payment
// longer than its establishment's timeout, falling back to defaultTimeout
// for establishments without one. Returns how many orders were cancelled.
// The candidate list is every awaiting-payment order because a per
// establishment timeout can be shorter than the default.
func (s *Service) ExpireStalePayments(ctx context.Context, now time.Time, defaultTimeout time.Duration) (int, error) {
	stale, err := s.repo.ListAwaitingPaymentBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, o := range stale {
		if now.Sub(o.CreatedAt) < s.paymentTimeout(ctx, o.EstablishmentID, defaultTimeout) {
			continue
		}
		if _, err := s.Cancel(ctx, o.ID); err != nil {
			var invalid *domain.InvalidTransitionError
			if errors.As(err, &invalid) {
				// a webhook raced us and moved the order on
				continue
			}
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

// paymentTimeout resolves the timeout for one establishment. Resolution
// failures fall back to the default rather than stalling the sweep.
func (s *Service) paymentTimeout(ctx context.Context, establishmentID int64, def time.Duration) time.Duration {
	if s.timeouts == nil {
		return def
	}
	d, err := s.timeouts.PaymentTimeout(ctx, establishmentID)
	if err != nil {
		s.log.Error("resolve payment timeout failed",
			slog.Any("err", err),
			slog.Int64("establishment_id", establishmentID))
		return def
	}
	if d <= 0 {
		return def
	}
	return d
}

func (s *Service) ListByEstablishment(ctx context.Context, establishmentID int64, status domain.Status, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.ListByEstablishment(ctx, establishmentID, status, limit)
}

// transition applies one lifecycle step. It retries once when a concurrent
// event moved the order between read and write. moved reports whether this
// call performed the change, as opposed to finding it already done.
func (s *Service) transition(ctx context.Context, orderID int64, to domain.Status) (order domain.Order, moved bool, err error) {
	for attempt := 0; attempt < 2; attempt++ {
		order, err = s.repo.Get(ctx, orderID)
		if err != nil {
			return domain.Order{}, false, err
		}

		if order.Status == to {
			// duplicate event, already there
			return order, false, nil
		}
		if !order.Status.CanTransitionTo(to) {
			return domain.Order{}, false, &domain.InvalidTransitionError{OrderID: orderID, From: order.Status, To: to}
		}

		ok, err := s.repo.UpdateStatus(ctx, orderID, order.Status, to)
		if err != nil {
			return domain.Order{}, false, err
		}
		if !ok {
			continue
		}

		from := order.Status
		order.Status = to
		s.publish(ctx, StatusEvent{
			EventID:   uuid.NewString(),
			OrderID:   orderID,
			From:      from,
			To:        to,
			CreatedAt: time.Now().UTC(),
		})
		return order, true, nil
	}
	return domain.Order{}, false, &domain.InvalidTransitionError{OrderID: orderID, To: to}
}

// publish failures are logged, never surfaced: event delivery must not undo
// a transition that already happened.
func (s *Service) publish(ctx context.Context, ev StatusEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatusChanged(ctx, ev); err != nil {
		s.log.Error("publish status event failed",
			slog.Any("err", err),
			slog.Int64("order_id", ev.OrderID),
			slog.String("to", string(ev.To)))
	}
}
