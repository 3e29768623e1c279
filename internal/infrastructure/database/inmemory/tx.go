package inmemory

import (
	"context"
	"sort"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// TxManager runs checkouts against a Store. A transaction only records a
// write set; commit validates it and applies it under the store lock, so
// nothing a transaction does is visible before commit.
type TxManager struct {
	s *Store
}

var _ repository.TxManager = (*TxManager)(nil)

func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	t := &txn{
		s:        m.s,
		taken:    make(map[int64]int),
		consumed: make(map[int64]entity.CartItem),
	}
	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

type txn struct {
	s        *Store
	taken    map[int64]int             // product id -> units to remove
	consumed map[int64]entity.CartItem // cart item id -> line as read
	orders   []entity.Order
}

func (t *txn) Carts() repository.CartStore       { return txCarts{t} }
func (t *txn) Catalog() repository.ProductCatalog { return txCatalog{t} }
func (t *txn) Orders() repository.OrderWriter     { return txOrders{t} }

func (t *txn) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(t.taken))
	for id := range t.taken {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p, ok := s.products[id]
		if !ok {
			return entity.ErrProductNotFound
		}
		if qty := t.taken[id]; p.Stock < qty {
			return &entity.InsufficientStockError{
				ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: qty,
			}
		}
	}
	for id, read := range t.consumed {
		cur, ok := s.cartItems[id]
		if !ok || cur.Quantity != read.Quantity || !cur.UpdatedAt.Equal(read.UpdatedAt) {
			return entity.ErrCartChanged
		}
	}
	for _, o := range t.orders {
		if _, taken := s.numbers[o.OrderNumber]; taken {
			return entity.ErrDuplicateOrderNumber
		}
	}

	now := s.now()
	for _, id := range ids {
		p := s.products[id]
		p.Stock -= t.taken[id]
		p.UpdatedAt = now
		s.products[id] = p
	}
	for id := range t.consumed {
		delete(s.cartItems, id)
	}
	for i := range t.orders {
		s.insertOrder(&t.orders[i])
	}
	return nil
}

type txCarts struct{ t *txn }

func (c txCarts) Items(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	c.t.s.mu.RLock()
	defer c.t.s.mu.RUnlock()
	return userItems(c.t.s, userID, c.t.consumed), nil
}

func (c txCarts) Clear(ctx context.Context, items []entity.CartItem) error {
	c.t.s.mu.RLock()
	defer c.t.s.mu.RUnlock()

	for _, it := range items {
		if _, dup := c.t.consumed[it.ID]; dup {
			return entity.ErrCartChanged
		}
		if _, ok := c.t.s.cartItems[it.ID]; !ok {
			return entity.ErrCartChanged
		}
	}
	for _, it := range items {
		c.t.consumed[it.ID] = it
	}
	return nil
}

type txCatalog struct{ t *txn }

// Get returns the product with this transaction's pending decrements applied.
func (c txCatalog) Get(ctx context.Context, id int64) (entity.Product, error) {
	c.t.s.mu.RLock()
	p, ok := c.t.s.products[id]
	c.t.s.mu.RUnlock()
	if !ok {
		return entity.Product{}, entity.ErrProductNotFound
	}
	p.Stock -= c.t.taken[id]
	return p, nil
}

func (c txCatalog) DecrementStock(ctx context.Context, id int64, qty int) (entity.Product, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		return entity.Product{}, err
	}
	if !p.InStock(qty) {
		return entity.Product{}, &entity.InsufficientStockError{
			ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: qty,
		}
	}
	c.t.taken[id] += qty
	p.Stock -= qty
	return p, nil
}

type txOrders struct{ t *txn }

// Create reserves ids immediately; the order itself is stored on commit.
func (o txOrders) Create(ctx context.Context, order *entity.Order) error {
	o.t.s.mu.RLock()
	_, taken := o.t.s.numbers[order.OrderNumber]
	o.t.s.mu.RUnlock()
	if taken {
		return entity.ErrDuplicateOrderNumber
	}
	for _, staged := range o.t.orders {
		if staged.OrderNumber == order.OrderNumber {
			return entity.ErrDuplicateOrderNumber
		}
	}

	order.ID = o.t.s.orderSeq.Add(1)
	for i := range order.Items {
		order.Items[i].ID = o.t.s.orderItemSeq.Add(1)
		order.Items[i].OrderID = order.ID
	}
	o.t.orders = append(o.t.orders, order.Clone())
	return nil
}
