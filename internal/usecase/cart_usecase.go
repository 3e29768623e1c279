package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// CartUsecase edits the caller's cart.
type CartUsecase interface {
	GetCart(ctx context.Context, id entity.Identity) (Cart, error)
	AddItem(ctx context.Context, id entity.Identity, input AddCartItemInput) (entity.CartItem, error)
	UpdateItem(ctx context.Context, id entity.Identity, itemID int64, quantity int) (entity.CartItem, error)
	RemoveItem(ctx context.Context, id entity.Identity, itemID int64) error
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int
}

// Cart is the caller's cart with its running total.
type Cart struct {
	Items []entity.CartItem
	Total decimal.Decimal
}
