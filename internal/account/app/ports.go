package app

import (
	"context"

	"github.com/rmaia/farmadelivery/internal/account/domain"
)

type AccountRepo interface {
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
}
