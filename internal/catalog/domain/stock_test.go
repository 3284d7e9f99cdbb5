package domain

import (
	"errors"
	"testing"
)

func TestStockStateInvariant(t *testing.T) {
	const initial = 10
	s := NewStockState(1, initial)

	r1, err := s.Reserve(4)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := s.Available(); got != 6 {
		t.Fatalf("available after reserve: got %d want 6", got)
	}

	if err := s.Commit(r1.ID); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// OnHand must equal initial minus committed
	if s.OnHand != initial-4 {
		t.Fatalf("on hand: got %d want %d", s.OnHand, initial-4)
	}
	if got := s.Available(); got != 6 {
		t.Fatalf("available after commit: got %d want 6", got)
	}

	s.Restock(4)
	if got := s.Available(); got != initial {
		t.Fatalf("available after restock: got %d want %d", got, initial)
	}
}

func TestStockStateReserveBeyondAvailable(t *testing.T) {
	s := NewStockState(1, 2)

	if _, err := s.Reserve(2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	_, err := s.Reserve(1)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 0 {
		t.Fatalf("reported available: got %d want 0", stockErr.Available)
	}
}

func TestStockStateCommitAfterRelease(t *testing.T) {
	s := NewStockState(1, 5)

	r, err := s.Reserve(2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := s.Release(r.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := s.Release(r.ID); err != nil {
		t.Fatalf("double release should be a no-op, got %v", err)
	}
	if err := s.Commit(r.ID); err == nil {
		t.Fatal("commit after release should fail")
	}
}
