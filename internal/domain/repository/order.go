package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// OrderWriter persists new orders inside a checkout transaction.
type OrderWriter interface {
	// Create stores o with its items and fills in the generated ids.
	// A taken order number yields entity.ErrDuplicateOrderNumber.
	Create(ctx context.Context, o *entity.Order) error
}

// OrderLedger is the full order store.
type OrderLedger interface {
	OrderWriter
	GetByID(ctx context.Context, id int64) (entity.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (entity.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	// UpdateStatus moves the order from -> to and fails with
	// entity.ErrStatusConflict if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to entity.OrderStatus, at time.Time) (entity.Order, error)
	SumTotal(ctx context.Context, statuses []entity.OrderStatus) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	// TotalsByStatus reads count and amount per status in one pass so the
	// figures agree with each other.
	TotalsByStatus(ctx context.Context) (map[entity.OrderStatus]StatusTotals, error)
}

// StatusTotals is the number of orders in one status and their summed total.
type StatusTotals struct {
	Count  int64
	Amount decimal.Decimal
}
