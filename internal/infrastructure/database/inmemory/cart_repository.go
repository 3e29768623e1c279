package inmemory

import (
	"context"
	"sort"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// CartRepository keeps cart lines in the shared store.
type CartRepository struct {
	s *Store
}

var _ repository.CartRepository = (*CartRepository)(nil)

func NewCartRepository(s *Store) *CartRepository {
	return &CartRepository{s: s}
}

func (r *CartRepository) Items(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return userItems(r.s, userID, nil), nil
}

func (r *CartRepository) Clear(ctx context.Context, items []entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range items {
		if _, ok := r.s.cartItems[it.ID]; !ok {
			return entity.ErrCartChanged
		}
	}
	for _, it := range items {
		delete(r.s.cartItems, it.ID)
	}
	return nil
}

func (r *CartRepository) Add(ctx context.Context, userID int64, p entity.Product, qty int) (entity.CartItem, error) {
	if err := entity.CheckQuantity(qty); err != nil {
		return entity.CartItem{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, it := range r.s.cartItems {
		if it.UserID == userID && it.ProductID == p.ID {
			merged, err := entity.MergeQuantity(it.Quantity, qty)
			if err != nil {
				return entity.CartItem{}, err
			}
			it.Quantity = merged
			it.UpdatedAt = now
			r.s.cartItems[id] = it
			return it, nil
		}
	}

	it := entity.CartItem{
		ID:          r.s.cartItemSeq.Add(1),
		UserID:      userID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		Price:       p.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.cartItems[it.ID] = it
	return it, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (entity.CartItem, error) {
	if err := entity.CheckQuantity(qty); err != nil {
		return entity.CartItem{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.cartItems[itemID]
	if !ok || it.UserID != userID {
		return entity.CartItem{}, entity.ErrCartItemNotFound
	}
	it.Quantity = qty
	it.UpdatedAt = r.s.now()
	r.s.cartItems[itemID] = it
	return it, nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.cartItems[itemID]
	if !ok || it.UserID != userID {
		return entity.ErrCartItemNotFound
	}
	delete(r.s.cartItems, itemID)
	return nil
}

// userItems returns the user's lines by id, skipping ids in exclude.
// Caller must hold s.mu.
func userItems(s *Store, userID int64, exclude map[int64]entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, 0)
	for id, it := range s.cartItems {
		if it.UserID != userID {
			continue
		}
		if _, gone := exclude[id]; gone {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
