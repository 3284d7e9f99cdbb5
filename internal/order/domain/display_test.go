package domain

import (
	"testing"
	"time"
)

func TestToDisplayRecord(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	now := createdAt.Add(25 * time.Minute)

	o := Order{
		ID:     42,
		Status: StatusEmSeparacao,
		Items: []OrderItem{
			{EntryID: 1, UnitAmount: 500, Quantity: 3, LineTotalAmount: 1500},
			{EntryID: 2, UnitAmount: 2000, Quantity: 1, LineTotalAmount: 2000},
		},
		SubtotalAmount:    3500,
		DeliveryFeeAmount: 500,
		TotalAmount:       4000,
		PrescriptionIDs:   []int64{501},
		CreatedAt:         createdAt,
	}

	rec := ToDisplayRecord(o, now)

	if rec.Subtotal != "35.00" {
		t.Fatalf("subtotal: got %q want \"35.00\"", rec.Subtotal)
	}
	if rec.DeliveryFee != "5.00" {
		t.Fatalf("delivery fee: got %q want \"5.00\"", rec.DeliveryFee)
	}
	if rec.Total != "40.00" {
		t.Fatalf("total: got %q want \"40.00\"", rec.Total)
	}
	if rec.Elapsed != 25*time.Minute {
		t.Fatalf("elapsed: got %v", rec.Elapsed)
	}
	if rec.ItemCount != 4 {
		t.Fatalf("item count: got %d want 4", rec.ItemCount)
	}
	if rec.PrescriptionCount != 1 {
		t.Fatalf("prescription count: got %d want 1", rec.PrescriptionCount)
	}
}

func TestToDisplayRecordIsPure(t *testing.T) {
	o := Order{ID: 1, SubtotalAmount: 100, TotalAmount: 100, CreatedAt: time.Unix(0, 0)}
	now := time.Unix(60, 0)

	first := ToDisplayRecord(o, now)
	second := ToDisplayRecord(o, now)
	if first != second {
		t.Fatalf("same inputs produced different records: %+v vs %+v", first, second)
	}
}
