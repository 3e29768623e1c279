package usecase

import (
	"context"
	"log/slog"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// CartService implements CartUsecase with repository dependencies.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductCatalog
	log      *slog.Logger
}

var _ CartUsecase = (*CartService)(nil)

func NewCartService(carts repository.CartRepository, products repository.ProductCatalog, log *slog.Logger) *CartService {
	if log == nil {
		log = slog.Default()
	}
	return &CartService{carts: carts, products: products, log: log}
}

func (s *CartService) GetCart(ctx context.Context, id entity.Identity) (Cart, error) {
	if !id.Authenticated() {
		return Cart{}, entity.ErrUnauthorized
	}
	items, err := s.carts.Items(ctx, id.UserID)
	if err != nil {
		return Cart{}, s.storeErr("load cart", err)
	}
	return Cart{Items: items, Total: entity.CartTotal(items)}, nil
}

// AddItem puts quantity units of a product in the cart at the product's
// current price. Adding a product already in the cart raises its quantity.
func (s *CartService) AddItem(ctx context.Context, id entity.Identity, input AddCartItemInput) (entity.CartItem, error) {
	if !id.Authenticated() {
		return entity.CartItem{}, entity.ErrUnauthorized
	}
	if input.ProductID <= 0 {
		return entity.CartItem{}, &entity.ValidationError{Field: "productId", Message: "is required"}
	}
	if err := entity.CheckQuantity(input.Quantity); err != nil {
		return entity.CartItem{}, err
	}

	p, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		return entity.CartItem{}, s.storeErr("get product", err)
	}
	it, err := s.carts.Add(ctx, id.UserID, p, input.Quantity)
	if err != nil {
		return entity.CartItem{}, s.storeErr("add cart item", err)
	}
	s.log.Debug("cart item added", "user_id", id.UserID, "product_id", p.ID, "quantity", it.Quantity)
	return it, nil
}

func (s *CartService) UpdateItem(ctx context.Context, id entity.Identity, itemID int64, quantity int) (entity.CartItem, error) {
	if !id.Authenticated() {
		return entity.CartItem{}, entity.ErrUnauthorized
	}
	if err := entity.CheckQuantity(quantity); err != nil {
		return entity.CartItem{}, err
	}
	it, err := s.carts.UpdateQuantity(ctx, id.UserID, itemID, quantity)
	if err != nil {
		return entity.CartItem{}, s.storeErr("update cart item", err)
	}
	return it, nil
}

func (s *CartService) RemoveItem(ctx context.Context, id entity.Identity, itemID int64) error {
	if !id.Authenticated() {
		return entity.ErrUnauthorized
	}
	if err := s.carts.Remove(ctx, id.UserID, itemID); err != nil {
		return s.storeErr("remove cart item", err)
	}
	return nil
}

func (s *CartService) storeErr(op string, err error) error {
	if entity.IsUserFacing(err) {
		return err
	}
	s.log.Error(op+" failed", "err", err)
	return &entity.PersistenceError{Op: op, Err: err}
}
