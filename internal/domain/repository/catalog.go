package repository

import (
	"context"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// ProductCatalog is the part of the catalog the checkout needs.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (entity.Product, error)
	// DecrementStock removes qty units only if that many are available.
	// It returns *entity.InsufficientStockError otherwise.
	DecrementStock(ctx context.Context, id int64, qty int) (entity.Product, error)
}

// ProductRepository adds catalog maintenance on top of ProductCatalog.
type ProductRepository interface {
	ProductCatalog
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, p entity.Product) (entity.Product, error)
	Update(ctx context.Context, p entity.Product) (entity.Product, error)
}
