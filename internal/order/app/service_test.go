package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rmaia/farmadelivery/internal/order/domain"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{m: make(map[int64]domain.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now().UTC()
	f.m[o.ID] = o
	return o, nil
}

func (f *fakeOrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.m[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.m[id]
	if !ok {
		return false, ErrNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	f.m[id] = o
	return true, nil
}

func (f *fakeOrderRepo) ListByEstablishment(ctx context.Context, establishmentID int64, status domain.Status, limit int) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.m {
		if o.Status == domain.StatusAguardandoPagamento && o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) setCreatedAt(id int64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.m[id]
	o.CreatedAt = at
	f.m[id] = o
}

type fakeStock struct {
	mu       sync.Mutex
	restocks map[int64]int32
}

func newFakeStock() *fakeStock {
	return &fakeStock{restocks: make(map[int64]int32)}
}

func (f *fakeStock) Restock(ctx context.Context, entryID int64, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restocks[entryID] += qty
	return nil
}

type fakeTimeouts struct {
	m map[int64]time.Duration
}

func (f *fakeTimeouts) PaymentTimeout(ctx context.Context, establishmentID int64) (time.Duration, error) {
	return f.m[establishmentID], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []StatusEvent
}

func (p *recordingPublisher) PublishStatusChanged(ctx context.Context, ev StatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func testOrder() domain.Order {
	return domain.Order{
		ClientID:        7,
		EstablishmentID: 10,
		Items: []domain.OrderItem{
			{EntryID: 1, ProductID: 100, Name: "Dipirona 500mg", UnitAmount: 500, Quantity: 3, LineTotalAmount: 1500},
			{EntryID: 2, ProductID: 101, Name: "Vitamina C 1g", UnitAmount: 2000, Quantity: 1, LineTotalAmount: 2000},
		},
		SubtotalAmount:    3500,
		DeliveryFeeAmount: 500,
		TotalAmount:       4000,
	}
}

func TestCreateRejectsBrokenTotals(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeStock(), nil, nil, nil)

	o := testOrder()
	o.TotalAmount = 9999
	if _, err := svc.Create(context.Background(), o); err == nil {
		t.Fatal("expected total mismatch error")
	}

	o = testOrder()
	o.Items[0].LineTotalAmount = 1
	if _, err := svc.Create(context.Background(), o); err == nil {
		t.Fatal("expected line total mismatch error")
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewService(newFakeOrderRepo(), newFakeStock(), pub, nil, nil)

	created, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.StatusAguardandoPagamento {
		t.Fatalf("status after create: got %s", created.Status)
	}

	steps := []struct {
		name string
		fn   func(context.Context, int64) (domain.Order, error)
		want domain.Status
	}{
		{"payment confirmed", svc.ConfirmPayment, domain.StatusEmSeparacao},
		{"dispatched", svc.Dispatch, domain.StatusEmRota},
		{"delivered", svc.Deliver, domain.StatusEntregue},
	}
	for _, step := range steps {
		o, err := step.fn(ctx, created.ID)
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if o.Status != step.want {
			t.Fatalf("%s: got %s want %s", step.name, o.Status, step.want)
		}
	}

	// create + three transitions
	if len(pub.events) != 4 {
		t.Fatalf("published events: got %d want 4", len(pub.events))
	}
}

func TestDuplicatePaymentEventIsNoOp(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewService(newFakeOrderRepo(), newFakeStock(), pub, nil, nil)

	created, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ConfirmPayment(ctx, created.ID); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	o, err := svc.ConfirmPayment(ctx, created.ID)
	if err != nil {
		t.Fatalf("duplicate confirmation should be a no-op, got %v", err)
	}
	if o.Status != domain.StatusEmSeparacao {
		t.Fatalf("status: got %s", o.Status)
	}

	// only create + one real transition got published
	if len(pub.events) != 2 {
		t.Fatalf("published events: got %d want 2", len(pub.events))
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeOrderRepo(), newFakeStock(), nil, nil, nil)

	created, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// cannot skip straight to dispatch or delivery
	for _, fn := range []func(context.Context, int64) (domain.Order, error){svc.Dispatch, svc.Deliver} {
		_, err := fn(ctx, created.ID)
		var invalid *domain.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	}

	o, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != domain.StatusAguardandoPagamento {
		t.Fatalf("status changed by rejected transition: %s", o.Status)
	}

	// terminal states accept nothing
	if _, err := svc.Deliver(ctx, created.ID); err == nil {
		t.Fatal("expected error")
	}
	if _, err := svc.ConfirmPayment(ctx, created.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.Cancel(ctx, created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = svc.ConfirmPayment(ctx, created.ID)
	var invalid *domain.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError after cancel, got %v", err)
	}
}

func TestCancelRestocksCommittedQuantities(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock()
	svc := NewService(newFakeOrderRepo(), stock, nil, nil, nil)

	created, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, created.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	o, err := svc.Cancel(ctx, created.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if o.Status != domain.StatusCancelado {
		t.Fatalf("status: got %s", o.Status)
	}

	if stock.restocks[1] != 3 || stock.restocks[2] != 1 {
		t.Fatalf("restocked quantities: got %+v", stock.restocks)
	}

	// a duplicate cancel must not restock again
	if _, err := svc.Cancel(ctx, created.ID); err != nil {
		t.Fatalf("duplicate cancel: %v", err)
	}
	if stock.restocks[1] != 3 || stock.restocks[2] != 1 {
		t.Fatalf("duplicate cancel restocked again: %+v", stock.restocks)
	}
}

func TestExpireStalePayments(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	stock := newFakeStock()
	svc := NewService(repo, stock, nil, nil, nil)

	stale, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	paid, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ConfirmPayment(ctx, paid.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	now := time.Now().UTC()
	repo.setCreatedAt(stale.ID, now.Add(-2*time.Hour))
	repo.setCreatedAt(paid.ID, now.Add(-2*time.Hour))

	cancelled, err := svc.ExpireStalePayments(ctx, now, time.Hour)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("cancelled: got %d want 1", cancelled)
	}

	for id, want := range map[int64]domain.Status{
		stale.ID: domain.StatusCancelado,
		fresh.ID: domain.StatusAguardandoPagamento,
		paid.ID:  domain.StatusEmSeparacao,
	} {
		o, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %d: %v", id, err)
		}
		if o.Status != want {
			t.Fatalf("order %d: got %s want %s", id, o.Status, want)
		}
	}
}

func TestExpireStalePaymentsHonorsEstablishmentTimeout(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	timeouts := &fakeTimeouts{m: map[int64]time.Duration{10: 30 * time.Minute}}
	svc := NewService(repo, newFakeStock(), nil, timeouts, nil)

	// establishment 10 overrides the timeout down to 30m
	overridden, err := svc.Create(ctx, testOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// establishment 20 has no override and keeps the 1h default
	other := testOrder()
	other.EstablishmentID = 20
	defaulted, err := svc.Create(ctx, other)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	repo.setCreatedAt(overridden.ID, now.Add(-45*time.Minute))
	repo.setCreatedAt(defaulted.ID, now.Add(-45*time.Minute))

	cancelled, err := svc.ExpireStalePayments(ctx, now, time.Hour)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("cancelled: got %d want 1", cancelled)
	}

	for id, want := range map[int64]domain.Status{
		overridden.ID: domain.StatusCancelado,
		defaulted.ID:  domain.StatusAguardandoPagamento,
	} {
		o, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %d: %v", id, err)
		}
		if o.Status != want {
			t.Fatalf("order %d: got %s want %s", id, o.Status, want)
		}
	}
}
