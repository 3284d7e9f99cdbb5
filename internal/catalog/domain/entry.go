package domain

import "time"

// Entry is an establishment-scoped listing of a product: its own selling
// price and its own stock. Amounts are in centavos.
type Entry struct {
	ID              int64
	EstablishmentID int64
	ProductID       int64
	Name            string
	PriceAmount     int64
	// ReferenceAmount is the regulated ceiling for this product. nil means
	// the ceiling is unknown, which freezes the price field.
	ReferenceAmount *int64
	Stock           int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
