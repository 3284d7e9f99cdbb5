package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisplayRecord is what the establishment dashboard renders for one order.
// Every field is derived from the stored order; nothing here is persisted.
type DisplayRecord struct {
	OrderID           int64         `json:"order_id"`
	Status            Status        `json:"status"`
	Subtotal          string        `json:"subtotal"`
	DeliveryFee       string        `json:"delivery_fee"`
	Total             string        `json:"total"`
	Elapsed           time.Duration `json:"elapsed"`
	ItemCount         int32         `json:"item_count"`
	PrescriptionCount int           `json:"prescription_count"`
}

// ToDisplayRecord maps an order to its dashboard projection. Pure: same
// order and clock always produce the same record.
func ToDisplayRecord(o Order, now time.Time) DisplayRecord {
	var units int32
	for _, it := range o.Items {
		units += it.Quantity
	}

	return DisplayRecord{
		OrderID:           o.ID,
		Status:            o.Status,
		Subtotal:          formatAmount(o.SubtotalAmount),
		DeliveryFee:       formatAmount(o.DeliveryFeeAmount),
		Total:             formatAmount(o.TotalAmount),
		Elapsed:           now.Sub(o.CreatedAt),
		ItemCount:         units,
		PrescriptionCount: len(o.PrescriptionIDs),
	}
}

// formatAmount renders centavos as a fixed two-decimal string. Decimal
// arithmetic keeps float rounding out of anything money-shaped.
func formatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
