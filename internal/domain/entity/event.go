package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderPlaced        EventType = "order.placed"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is published after an order change has been committed.
type OrderEvent struct {
	Type        EventType       `json:"type"`
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	Email       string          `json:"email"`
	Status      OrderStatus     `json:"status"`
	Previous    OrderStatus     `json:"previous_status,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewOrderEvent(t EventType, o Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        t,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Email:       o.Email,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		OccurredAt:  at,
	}
}
