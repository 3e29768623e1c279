package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

// OrderUsecase exposes checkout, order lifecycle and reporting.
type OrderUsecase interface {
	CreateOrder(ctx context.Context, id entity.Identity, input CreateOrderInput) (entity.Order, error)
	GetOrderByID(ctx context.Context, id entity.Identity, orderID int64) (entity.Order, error)
	GetOrderByOrderNumber(ctx context.Context, id entity.Identity, number string) (entity.Order, error)
	GetOrdersByUser(ctx context.Context, id entity.Identity) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id entity.Identity, orderID int64, status string) (entity.Order, error)
	GetAllOrders(ctx context.Context, id entity.Identity) ([]entity.Order, error)
	GetOrdersByStatus(ctx context.Context, id entity.Identity, status string) ([]entity.Order, error)
	GetTotalSales(ctx context.Context, id entity.Identity) (decimal.Decimal, error)
	GetTotalOrders(ctx context.Context, id entity.Identity) (int64, error)
	GetSalesReport(ctx context.Context, id entity.Identity) (SalesReport, error)
}

// CreateOrderInput carries the buyer supplied checkout fields.
type CreateOrderInput struct {
	ShippingAddress string
	Email           string
	Remarks         string
}

func (in CreateOrderInput) delivery() (entity.Delivery, error) {
	d := entity.Delivery{
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		Email:           strings.TrimSpace(in.Email),
		Remarks:         strings.TrimSpace(in.Remarks),
	}
	if d.ShippingAddress == "" {
		return d, &entity.ValidationError{Field: "shippingAddress", Message: "is required"}
	}
	if d.Email == "" {
		return d, &entity.ValidationError{Field: "email", Message: "is required"}
	}
	if at := strings.Index(d.Email, "@"); at <= 0 || at == len(d.Email)-1 {
		return d, &entity.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return d, nil
}

type SalesReport struct {
	TotalSales  decimal.Decimal
	TotalOrders int64
	ByStatus    map[entity.OrderStatus]int64
}

// EventPublisher receives order events after commit. Publish must not block
// the caller on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.OrderEvent)
}

// OrderMetrics records checkout outcomes.
type OrderMetrics interface {
	OrderPlaced(total decimal.Decimal)
	OrderRejected(reason string)
	StatusChanged(from, to entity.OrderStatus)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.OrderEvent) {}

type nopMetrics struct{}

func (nopMetrics) OrderPlaced(decimal.Decimal) {}
func (nopMetrics) OrderRejected(string) {}
func (nopMetrics) StatusChanged(entity.OrderStatus, entity.OrderStatus) {}
