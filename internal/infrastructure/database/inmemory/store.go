package inmemory

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// Store is the shared in-memory state behind the repositories and the
// transaction manager. All maps are guarded by mu.
type Store struct {
	mu        sync.RWMutex
	products  map[int64]entity.Product
	cartItems map[int64]entity.CartItem
	orders    map[int64]entity.Order
	numbers   map[string]int64

	productSeq   atomic.Int64
	cartItemSeq  atomic.Int64
	orderSeq     atomic.Int64
	orderItemSeq atomic.Int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		products:  make(map[int64]entity.Product),
		cartItems: make(map[int64]entity.CartItem),
		orders:    make(map[int64]entity.Order),
		numbers:   make(map[string]int64),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Repositories returns product, cart and order repositories over s.
func (s *Store) Repositories() (*ProductRepository, *CartRepository, *OrderRepository) {
	return NewProductRepository(s), NewCartRepository(s), NewOrderRepository(s)
}

// insertOrder assigns ids to o and its items. Caller must hold mu.
func (s *Store) insertOrder(o *entity.Order) {
	if o.ID == 0 {
		o.ID = s.orderSeq.Add(1)
	}
	for i := range o.Items {
		if o.Items[i].ID == 0 {
			o.Items[i].ID = s.orderItemSeq.Add(1)
		}
		o.Items[i].OrderID = o.ID
	}
	s.orders[o.ID] = o.Clone()
	s.numbers[o.OrderNumber] = o.ID
}

// sortedOrders filters orders under a read lock and returns them by id.
func (s *Store) sortedOrders(keep func(entity.Order) bool) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
