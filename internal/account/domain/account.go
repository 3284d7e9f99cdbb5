package domain

import "time"

// Kind discriminates the two account variants so callers can branch
// exhaustively instead of sniffing fields.
type Kind string

const (
	KindClient        Kind = "CLIENT"
	KindEstablishment Kind = "ESTABLISHMENT"
)

type Account struct {
	ID    int64
	Kind  Kind
	Name  string
	Email string

	// Exactly one of these is set, matching Kind.
	Client        *Client
	Establishment *Establishment
}

type Client struct {
	Phone           string
	DeliveryAddress string
}

type Establishment struct {
	CNPJ     string
	Fees     FeePolicy
	Schedule Schedule
	// PaymentTimeout bounds how long an order may wait for payment before
	// being auto-cancelled. Zero means use the service-wide default.
	PaymentTimeout time.Duration
}

// FeePolicy is the establishment's delivery pricing: a flat fee, waived once
// the order subtotal reaches the free-delivery threshold. Amounts in centavos.
type FeePolicy struct {
	DeliveryFeeAmount       int64
	FreeDeliveryAboveAmount int64
}

// Fee returns the delivery fee owed for a given subtotal.
func (p FeePolicy) Fee(subtotalAmount int64) int64 {
	if p.FreeDeliveryAboveAmount > 0 && subtotalAmount >= p.FreeDeliveryAboveAmount {
		return 0
	}
	return p.DeliveryFeeAmount
}

// Schedule is the weekly opening schedule, one window per weekday. A nil
// window means closed that day.
type Schedule struct {
	Windows [7]*Window // indexed by time.Weekday
}

type Window struct {
	Open  string // "08:00"
	Close string // "22:00"
}

// OpenOn reports whether the establishment takes orders on the given weekday.
func (s Schedule) OpenOn(day time.Weekday) bool {
	return s.Windows[day] != nil
}
