package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rmaia/farmadelivery/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo EntryRepo
}

func NewService(repo EntryRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateEntry(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	e.Name = strings.TrimSpace(e.Name)

	if e.EstablishmentID <= 0 || e.ProductID <= 0 || e.Name == "" || e.Stock < 0 {
		return domain.Entry{}, ErrInvalidInput
	}
	if e.PriceAmount <= 0 {
		return domain.Entry{}, &domain.InvalidPriceError{ProposedAmount: e.PriceAmount, Reason: "price must be greater than zero"}
	}
	if e.ReferenceAmount != nil {
		if err := domain.ValidatePrice(e.PriceAmount, e.ReferenceAmount); err != nil {
			return domain.Entry{}, err
		}
	}

	return s.repo.Create(ctx, e)
}

// ChangePrice validates a proposed selling price against the entry's
// regulated ceiling before persisting it.
func (s *Service) ChangePrice(ctx context.Context, id int64, amount int64) (domain.Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}

	if err := domain.ValidatePrice(amount, entry.ReferenceAmount); err != nil {
		return domain.Entry{}, err
	}

	if err := s.repo.UpdatePrice(ctx, id, amount); err != nil {
		return domain.Entry{}, err
	}
	entry.PriceAmount = amount
	return entry, nil
}

func (s *Service) GetEntry(ctx context.Context, id int64) (domain.Entry, error) {
	if id <= 0 {
		return domain.Entry{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListEntries(ctx context.Context, establishmentID int64, limit int, cursor int64) ([]domain.Entry, int64, error) {
	if establishmentID <= 0 {
		return nil, 0, ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListByEstablishment(ctx, establishmentID, limit, cursor)
}
