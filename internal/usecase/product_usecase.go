package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// ProductUsecase exposes the catalog. Writes are admin only.
type ProductUsecase interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, productID int64) (entity.Product, error)
	Create(ctx context.Context, id entity.Identity, input ProductInput) (entity.Product, error)
	Update(ctx context.Context, id entity.Identity, productID int64, input ProductInput) (entity.Product, error)
}

// ProductInput carries data required to create or replace a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// SampleProducts is the starter catalog loaded into an empty store.
func SampleProducts() []entity.Product {
	return []entity.Product{
		{Name: "Laptop", Description: "High-performance laptop", Price: decimal.RequireFromString("1500.00"), Stock: 10},
		{Name: "Smartphone", Description: "Latest smartphone model", Price: decimal.RequireFromString("800.00"), Stock: 20},
		{Name: "Tablet", Description: "Portable tablet device", Price: decimal.RequireFromString("400.00"), Stock: 15},
	}
}
