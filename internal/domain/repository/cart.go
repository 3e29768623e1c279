package repository

import (
	"context"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// CartStore is the part of the cart the checkout needs.
type CartStore interface {
	Items(ctx context.Context, userID int64) ([]entity.CartItem, error)
	// Clear removes exactly the given items and fails with
	// entity.ErrCartChanged if any of them is already gone.
	Clear(ctx context.Context, items []entity.CartItem) error
}

// CartRepository adds per-user cart editing.
type CartRepository interface {
	CartStore
	// Add merges qty into the user's line for the product. The price is
	// captured from p only when the line is created.
	Add(ctx context.Context, userID int64, p entity.Product, qty int) (entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (entity.CartItem, error)
	Remove(ctx context.Context, userID, itemID int64) error
}
