package app

import (
	"context"

	"github.com/rmaia/farmadelivery/internal/catalog/domain"
)

type EntryRepo interface {
	Create(ctx context.Context, e domain.Entry) (domain.Entry, error)
	Get(ctx context.Context, id int64) (domain.Entry, error)
	ListByEstablishment(ctx context.Context, establishmentID int64, limit int, cursor int64) ([]domain.Entry, int64, error)
	UpdatePrice(ctx context.Context, id int64, amount int64) error
	SetStock(ctx context.Context, id int64, stock int32) error
}
