package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rmaia/farmadelivery/internal/account/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo AccountRepo
}

func NewService(repo AccountRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return domain.Account{}, ErrInvalidInput
	}

	switch a.Kind {
	case domain.KindClient:
		if a.Client == nil || a.Establishment != nil {
			return domain.Account{}, fmt.Errorf("%w: client account needs client details only", ErrInvalidInput)
		}
	case domain.KindEstablishment:
		if a.Establishment == nil || a.Client != nil {
			return domain.Account{}, fmt.Errorf("%w: establishment account needs establishment details only", ErrInvalidInput)
		}
		if a.Establishment.Fees.DeliveryFeeAmount < 0 || a.Establishment.Fees.FreeDeliveryAboveAmount < 0 {
			return domain.Account{}, fmt.Errorf("%w: fee policy amounts cannot be negative", ErrInvalidInput)
		}
	default:
		return domain.Account{}, fmt.Errorf("%w: unknown account kind %q", ErrInvalidInput, a.Kind)
	}

	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	if id <= 0 {
		return domain.Account{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// Establishment resolves an account id that must be an establishment.
func (s *Service) Establishment(ctx context.Context, id int64) (domain.Account, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if a.Kind != domain.KindEstablishment {
		return domain.Account{}, fmt.Errorf("%w: account %d is not an establishment", ErrInvalidInput, id)
	}
	return a, nil
}
