package adapter

import (
	"context"

	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	orderapp "github.com/rmaia/farmadelivery/internal/order/app"
	orderdomain "github.com/rmaia/farmadelivery/internal/order/domain"
)

type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) Create(ctx context.Context, in checkoutapp.OrderInput) (checkoutapp.OrderRef, error) {
	items := make([]orderdomain.OrderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		items = append(items, orderdomain.OrderItem{
			EntryID:         line.EntryID,
			ProductID:       line.ProductID,
			Name:            line.Name,
			UnitAmount:      line.UnitAmount,
			Quantity:        line.Quantity,
			LineTotalAmount: line.UnitAmount * int64(line.Quantity),
		})
	}

	created, err := w.svc.Create(ctx, orderdomain.Order{
		ClientID:          in.ClientID,
		EstablishmentID:   in.EstablishmentID,
		Items:             items,
		SubtotalAmount:    in.SubtotalAmount,
		DeliveryFeeAmount: in.DeliveryFeeAmount,
		TotalAmount:       in.TotalAmount,
		PrescriptionIDs:   in.PrescriptionIDs,
	})
	if err != nil {
		return checkoutapp.OrderRef{}, err
	}

	return checkoutapp.OrderRef{
		ID:          created.ID,
		Status:      string(created.Status),
		TotalAmount: created.TotalAmount,
		CreatedAt:   created.CreatedAt,
	}, nil
}
