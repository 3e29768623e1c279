package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a placed purchase. TotalAmount is fixed when the order is built
// and never recomputed.
type Order struct {
	ID              int64
	OrderNumber     string
	UserID          int64
	Status          OrderStatus
	ShippingAddress string
	Email           string
	Remarks         string
	TotalAmount     decimal.Decimal
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem holds the product snapshot taken at checkout. OrderID only
// identifies the owning order.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Delivery carries the buyer supplied part of an order.
type Delivery struct {
	ShippingAddress string
	Email           string
	Remarks         string
}

// NewOrder builds a pending order from cart items. Each item becomes one
// OrderItem charged at the price captured in the cart.
func NewOrder(userID int64, number string, items []CartItem, d Delivery, now time.Time) Order {
	o := Order{
		OrderNumber:     number,
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: d.ShippingAddress,
		Email:           d.Email,
		Remarks:         d.Remarks,
		TotalAmount:     decimal.Zero,
		Items:           make([]OrderItem, 0, len(items)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range items {
		oi := OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		o.Items = append(o.Items, oi)
		o.TotalAmount = o.TotalAmount.Add(oi.Subtotal())
	}
	return o
}

// ItemsTotal recomputes the sum of the order lines.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Clone returns a deep copy so callers cannot alias stored items.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}
