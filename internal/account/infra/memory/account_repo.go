package memory

import (
	"context"
	"sync"

	"github.com/rmaia/farmadelivery/internal/account/app"
	"github.com/rmaia/farmadelivery/internal/account/domain"
)

type AccountRepo struct {
	mu     sync.RWMutex
	nextID int64
	m      map[int64]domain.Account
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{m: make(map[int64]domain.Account)}
}

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID
	r.m[a.ID] = a
	return a, nil
}

func (r *AccountRepo) Get(ctx context.Context, id int64) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.m[id]
	if !ok {
		return domain.Account{}, app.ErrNotFound
	}
	return a, nil
}
