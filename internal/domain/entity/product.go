package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with its own stock counter.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether qty units can be taken from the product.
func (p Product) InStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}
