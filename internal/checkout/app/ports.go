package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rmaia/farmadelivery/internal/checkout/domain"
)

type Cart struct {
	ID              int64
	ClientID        int64
	EstablishmentID int64
	Lines           []domain.Line
}

type CartReader interface {
	GetCart(ctx context.Context, clientID int64) (Cart, error)
	Clear(ctx context.Context, clientID int64) error
}

type Entry struct {
	ID              int64
	EstablishmentID int64
	Name            string
}

type CatalogReader interface {
	GetEntry(ctx context.Context, entryID int64) (Entry, error)
}

// StockReserver is the two-phase protocol the assembler drives: reserve
// every line, then commit them all or release them all.
type StockReserver interface {
	Reserve(ctx context.Context, entryID int64, qty int32) (uuid.UUID, error)
	Commit(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
}

type FeePolicyReader interface {
	FeePolicy(ctx context.Context, establishmentID int64) (domain.FeePolicy, error)
}

type OrderInput struct {
	ClientID          int64
	EstablishmentID   int64
	Lines             []domain.Line
	SubtotalAmount    int64
	DeliveryFeeAmount int64
	TotalAmount       int64
	PrescriptionIDs   []int64
}

type OrderRef struct {
	ID          int64
	Status      string
	TotalAmount int64
	CreatedAt   time.Time
}

type OrderWriter interface {
	Create(ctx context.Context, in OrderInput) (OrderRef, error)
}
