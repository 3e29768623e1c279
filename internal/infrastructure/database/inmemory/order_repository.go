package inmemory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// OrderRepository is an in-memory order ledger.
type OrderRepository struct {
	s *Store
}

var _ repository.OrderLedger = (*OrderRepository)(nil)

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{s: s}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.numbers[o.OrderNumber]; taken {
		return entity.ErrDuplicateOrderNumber
	}
	r.s.insertOrder(o)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return entity.Order{}, entity.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) GetByOrderNumber(ctx context.Context, number string) (entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.numbers[number]
	if !ok {
		return entity.Order{}, entity.ErrOrderNotFound
	}
	return r.s.orders[id].Clone(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	return r.s.sortedOrders(func(o entity.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	return r.s.sortedOrders(func(o entity.Order) bool { return o.Status == status }), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.s.sortedOrders(func(entity.Order) bool { return true }), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to entity.OrderStatus, at time.Time) (entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return entity.Order{}, entity.ErrOrderNotFound
	}
	if o.Status != from {
		return entity.Order{}, entity.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = at
	r.s.orders[id] = o
	return o.Clone(), nil
}

func (r *OrderRepository) SumTotal(ctx context.Context, statuses []entity.OrderStatus) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[entity.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	total := decimal.Zero
	for _, o := range r.s.orders {
		if want[o.Status] {
			total = total.Add(o.TotalAmount)
		}
	}
	return total, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.orders)), nil
}

func (r *OrderRepository) TotalsByStatus(ctx context.Context) (map[entity.OrderStatus]repository.StatusTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[entity.OrderStatus]repository.StatusTotals)
	for _, o := range r.s.orders {
		t := out[o.Status]
		t.Count++
		t.Amount = t.Amount.Add(o.TotalAmount)
		out[o.Status] = t
	}
	return out, nil
}
