package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rmaia/farmadelivery/internal/catalog/domain"
)

// StockLedger owns stock accounting for catalog entries. Mutations on a
// given entry are serialized behind a per-entry lock so concurrent checkouts
// can never oversell; different entries proceed in parallel. Committed
// levels are written through to the repo; tentative reservations exist only
// in the ledger.
type StockLedger struct {
	repo EntryRepo

	mu    sync.Mutex
	slots map[int64]*entrySlot
	index map[uuid.UUID]int64 // reservation id -> entry id
}

type entrySlot struct {
	mu    sync.Mutex
	state *domain.StockState
}

func NewStockLedger(repo EntryRepo) *StockLedger {
	return &StockLedger{
		repo:  repo,
		slots: make(map[int64]*entrySlot),
		index: make(map[uuid.UUID]int64),
	}
}

// slot returns the per-entry slot, loading the current stock level from the
// repo on first use.
func (l *StockLedger) slot(ctx context.Context, entryID int64) (*entrySlot, error) {
	l.mu.Lock()
	s, ok := l.slots[entryID]
	if !ok {
		s = &entrySlot{}
		l.slots[entryID] = s
	}
	l.mu.Unlock()

	s.mu.Lock()
	if s.state == nil {
		entry, err := l.repo.Get(ctx, entryID)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.state = domain.NewStockState(entry.ID, entry.Stock)
	}
	s.mu.Unlock()
	return s, nil
}

// Reserve places a tentative hold of qty units on an entry.
func (l *StockLedger) Reserve(ctx context.Context, entryID int64, qty int32) (uuid.UUID, error) {
	if qty <= 0 {
		return uuid.Nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, qty)
	}
	s, err := l.slot(ctx, entryID)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.state.Reserve(qty)
	if err != nil {
		return uuid.Nil, err
	}

	l.mu.Lock()
	l.index[r.ID] = entryID
	l.mu.Unlock()

	return r.ID, nil
}

// Commit finalizes a reservation and persists the new stock level.
// Committing twice is a no-op.
func (l *StockLedger) Commit(ctx context.Context, id uuid.UUID) error {
	s, err := l.lookup(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Commit(id); err != nil {
		return err
	}
	return l.repo.SetStock(ctx, s.state.EntryID, s.state.OnHand)
}

// Release undoes a reservation, restocking if it was already committed.
// Releasing twice is a no-op.
func (l *StockLedger) Release(ctx context.Context, id uuid.UUID) error {
	s, err := l.lookup(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Release(id); err != nil {
		return err
	}
	return l.repo.SetStock(ctx, s.state.EntryID, s.state.OnHand)
}

// Restock returns qty committed units of an entry to availability. Used
// when a checked-out order is cancelled.
func (l *StockLedger) Restock(ctx context.Context, entryID int64, qty int32) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, qty)
	}
	s, err := l.slot(ctx, entryID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Restock(qty)
	return l.repo.SetStock(ctx, entryID, s.state.OnHand)
}

// Available reports the quantity currently open to reservation.
func (l *StockLedger) Available(ctx context.Context, entryID int64) (int32, error) {
	s, err := l.slot(ctx, entryID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Available(), nil
}

func (l *StockLedger) lookup(ctx context.Context, id uuid.UUID) (*entrySlot, error) {
	l.mu.Lock()
	entryID, ok := l.index[id]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
	}
	return l.slot(ctx, entryID)
}
