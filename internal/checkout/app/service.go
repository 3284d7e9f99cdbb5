package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	catalogdomain "github.com/rmaia/farmadelivery/internal/catalog/domain"
	"github.com/rmaia/farmadelivery/internal/checkout/domain"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyCart = errors.New("cart is empty")

// Service assembles an order from a client's cart. Checkout is
// all-or-nothing: every line is reserved before anything is committed, and
// one failed line releases every reservation taken in this attempt.
type Service struct {
	cart    CartReader
	catalog CatalogReader
	stock   StockReserver
	fees    FeePolicyReader
	orders  OrderWriter
	log     *slog.Logger

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, stock StockReserver, fees FeePolicyReader, orders OrderWriter, log *slog.Logger, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cart:          cart,
		catalog:       catalog,
		stock:         stock,
		fees:          fees,
		orders:        orders,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

func (s *Service) Checkout(ctx context.Context, clientID int64, prescriptionIDs []int64) (domain.Receipt, error) {
	cart, err := s.cart.GetCart(ctx, clientID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if len(cart.Lines) == 0 {
		return domain.Receipt{}, ErrEmptyCart
	}

	// sanity pass over the catalog before touching stock
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for idx := range cart.Lines {
		g.Go(func() error {
			line := cart.Lines[idx]
			if line.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", line.Quantity)
			}
			entry, err := s.catalog.GetEntry(gctx, line.EntryID)
			if err != nil {
				return fmt.Errorf("failed to get entry %d: %w", line.EntryID, err)
			}
			if entry.EstablishmentID != cart.EstablishmentID {
				return fmt.Errorf("entry %d does not belong to establishment %d", line.EntryID, cart.EstablishmentID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Receipt{}, err
	}

	// phase 1: reserve every line, collecting the full set of failures
	reserved := make([]uuid.UUID, 0, len(cart.Lines))
	var unavailable []domain.UnavailableLine
	for _, line := range cart.Lines {
		id, err := s.stock.Reserve(ctx, line.EntryID, line.Quantity)
		if err != nil {
			var stockErr *catalogdomain.InsufficientStockError
			if errors.As(err, &stockErr) {
				unavailable = append(unavailable, domain.UnavailableLine{
					EntryID:   stockErr.EntryID,
					Requested: stockErr.Requested,
					Available: stockErr.Available,
				})
				continue
			}
			s.rollback(ctx, reserved)
			return domain.Receipt{}, err
		}
		reserved = append(reserved, id)
	}
	if len(unavailable) > 0 {
		s.rollback(ctx, reserved)
		return domain.Receipt{}, &domain.AssemblyError{Lines: unavailable}
	}

	var subtotal int64
	for _, line := range cart.Lines {
		subtotal += line.UnitAmount * int64(line.Quantity)
	}

	policy, err := s.fees.FeePolicy(ctx, cart.EstablishmentID)
	if err != nil {
		s.rollback(ctx, reserved)
		return domain.Receipt{}, err
	}
	fee := policy.Fee(subtotal)

	ref, err := s.orders.Create(ctx, OrderInput{
		ClientID:          cart.ClientID,
		EstablishmentID:   cart.EstablishmentID,
		Lines:             cart.Lines,
		SubtotalAmount:    subtotal,
		DeliveryFeeAmount: fee,
		TotalAmount:       subtotal + fee,
		PrescriptionIDs:   prescriptionIDs,
	})
	if err != nil {
		s.rollback(ctx, reserved)
		return domain.Receipt{}, err
	}

	// phase 2: the order exists, finalize every hold
	for _, id := range reserved {
		if err := s.stock.Commit(ctx, id); err != nil {
			return domain.Receipt{}, fmt.Errorf("failed to commit reservation %s for order %d: %w", id, ref.ID, err)
		}
	}

	if err := s.cart.Clear(ctx, clientID); err != nil {
		return domain.Receipt{}, err
	}

	return domain.Receipt{
		OrderID:           ref.ID,
		Status:            ref.Status,
		SubtotalAmount:    subtotal,
		DeliveryFeeAmount: fee,
		TotalAmount:       subtotal + fee,
		CreatedAt:         ref.CreatedAt,
	}, nil
}

// rollback compensates a failed checkout attempt; release is idempotent so
// retrying a partially rolled back attempt is safe.
func (s *Service) rollback(ctx context.Context, reserved []uuid.UUID) {
	for i := len(reserved) - 1; i >= 0; i-- {
		if err := s.stock.Release(ctx, reserved[i]); err != nil {
			s.log.Error("failed to release reservation", slog.Any("err", err), slog.String("reservation", reserved[i].String()))
		}
	}
}
