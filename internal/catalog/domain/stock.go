package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "RESERVED"
	ReservationCommitted ReservationStatus = "COMMITTED"
	ReservationReleased  ReservationStatus = "RELEASED"
)

// Reservation is a tentative hold on stock taken during checkout. It is
// finalized with Commit or undone with Release; both are idempotent.
type Reservation struct {
	ID       uuid.UUID
	EntryID  int64
	Quantity int32
	Status   ReservationStatus
}

// InsufficientStockError reports a reserve attempt exceeding availability.
type InsufficientStockError struct {
	EntryID   int64
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("entry %d: requested %d, only %d available", e.EntryID, e.Requested, e.Available)
}

// StockState is the reservation accounting for a single catalog entry.
// OnHand already excludes committed quantities, so at every instant
// OnHand = initial - committed. Callers must serialize access per entry.
type StockState struct {
	EntryID      int64
	OnHand       int32
	Reserved     int32
	Reservations map[uuid.UUID]*Reservation
}

func NewStockState(entryID int64, onHand int32) *StockState {
	return &StockState{
		EntryID:      entryID,
		OnHand:       onHand,
		Reservations: make(map[uuid.UUID]*Reservation),
	}
}

// Available is the quantity still open to new reservations.
func (s *StockState) Available() int32 {
	return s.OnHand - s.Reserved
}

// Reserve places a tentative hold of qty units.
func (s *StockState) Reserve(qty int32) (*Reservation, error) {
	if qty > s.Available() {
		return nil, &InsufficientStockError{EntryID: s.EntryID, Requested: qty, Available: s.Available()}
	}
	r := &Reservation{
		ID:       uuid.New(),
		EntryID:  s.EntryID,
		Quantity: qty,
		Status:   ReservationReserved,
	}
	s.Reserved += qty
	s.Reservations[r.ID] = r
	return r, nil
}

// Commit finalizes a reservation, turning the hold into a real decrement.
// Committing an already committed reservation is a no-op.
func (s *StockState) Commit(id uuid.UUID) error {
	r, ok := s.Reservations[id]
	if !ok {
		return fmt.Errorf("entry %d: unknown reservation %s", s.EntryID, id)
	}
	switch r.Status {
	case ReservationCommitted:
		return nil
	case ReservationReleased:
		return fmt.Errorf("entry %d: reservation %s already released", s.EntryID, id)
	}
	s.Reserved -= r.Quantity
	s.OnHand -= r.Quantity
	r.Status = ReservationCommitted
	return nil
}

// Release undoes a reservation. A reserved hold goes back to available; a
// committed one is restocked. Releasing twice is a no-op.
func (s *StockState) Release(id uuid.UUID) error {
	r, ok := s.Reservations[id]
	if !ok {
		return fmt.Errorf("entry %d: unknown reservation %s", s.EntryID, id)
	}
	switch r.Status {
	case ReservationReleased:
		return nil
	case ReservationCommitted:
		s.OnHand += r.Quantity
	default:
		s.Reserved -= r.Quantity
	}
	r.Status = ReservationReleased
	return nil
}

// Restock returns previously committed units to availability. Used as the
// compensating action when a paid-for order is cancelled.
func (s *StockState) Restock(qty int32) {
	s.OnHand += qty
}
