package inmemory

import (
	"context"
	"sort"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// ProductRepository is an in-memory catalog.
type ProductRepository struct {
	s *Store
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return entity.Product{}, entity.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, qty int) (entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return entity.Product{}, entity.ErrProductNotFound
	}
	if !p.InStock(qty) {
		return entity.Product{}, &entity.InsufficientStockError{
			ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: qty,
		}
	}
	p.Stock -= qty
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.productSeq.Add(1)
	now := r.s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.s.products[p.ID] = p
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p entity.Product) (entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.products[p.ID]
	if !ok {
		return entity.Product{}, entity.ErrProductNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.products[p.ID] = p
	return p, nil
}
