package domain

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusAguardandoPagamento Status = "AGUARDANDO_PAGAMENTO"
	StatusEmSeparacao         Status = "EM_SEPARACAO"
	StatusEmRota              Status = "EM_ROTA"
	StatusEntregue            Status = "ENTREGUE"
	StatusCancelado           Status = "CANCELADO"
)

var statusTransitions = map[Status][]Status{
	StatusAguardandoPagamento: {StatusEmSeparacao, StatusCancelado},
	StatusEmSeparacao:         {StatusEmRota, StatusCancelado},
	StatusEmRota:              {StatusEntregue, StatusCancelado},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

// InvalidTransitionError reports an illegal lifecycle move; the order's
// state is left untouched.
type InvalidTransitionError struct {
	OrderID int64
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %d: cannot transition %s -> %s", e.OrderID, e.From, e.To)
}

// OrderItem is a frozen snapshot of a cart line. It is never recomputed
// from the live catalog after the order is created.
type OrderItem struct {
	EntryID         int64
	ProductID       int64
	Name            string
	UnitAmount      int64
	Quantity        int32
	LineTotalAmount int64
}

// Order is an immutable-priced transaction. Only Status ever changes after
// creation, and only through the lifecycle service.
type Order struct {
	ID                int64
	ClientID          int64
	EstablishmentID   int64
	Items             []OrderItem
	SubtotalAmount    int64
	DeliveryFeeAmount int64
	TotalAmount       int64
	Status            Status
	PrescriptionIDs   []int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the monetary invariants fixed at creation time:
// every line total matches unit*qty, the subtotal is the sum of the lines
// and the total is subtotal plus delivery fee.
func (o Order) Validate() error {
	if o.ClientID <= 0 || o.EstablishmentID <= 0 {
		return fmt.Errorf("order: missing client or establishment")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order: no items")
	}
	if o.DeliveryFeeAmount < 0 {
		return fmt.Errorf("order: delivery fee cannot be negative, got %d", o.DeliveryFeeAmount)
	}

	var subtotal int64
	for i, it := range o.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("order: item %d: quantity must be positive, got %d", i, it.Quantity)
		}
		if it.UnitAmount <= 0 {
			return fmt.Errorf("order: item %d: unit amount must be positive, got %d", i, it.UnitAmount)
		}
		if expected := it.UnitAmount * int64(it.Quantity); it.LineTotalAmount != expected {
			return fmt.Errorf("order: item %d: line total mismatch, got %d want %d", i, it.LineTotalAmount, expected)
		}
		subtotal += it.LineTotalAmount
	}
	if o.SubtotalAmount != subtotal {
		return fmt.Errorf("order: subtotal mismatch, got %d want %d", o.SubtotalAmount, subtotal)
	}
	if o.TotalAmount != o.SubtotalAmount+o.DeliveryFeeAmount {
		return fmt.Errorf("order: total mismatch, got %d want %d", o.TotalAmount, o.SubtotalAmount+o.DeliveryFeeAmount)
	}
	return nil
}
