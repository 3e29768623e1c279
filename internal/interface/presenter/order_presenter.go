package presenter

import (
	"time"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

// OrderPresenter shapes orders and reports for delivery layer responses.
type OrderPresenter struct{}

func NewOrderPresenter() *OrderPresenter {
	return &OrderPresenter{}
}

type OrderItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          int64               `json:"user_id"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	Email           string              `json:"email"`
	Remarks         string              `json:"remarks,omitempty"`
	TotalAmount     string              `json:"total_amount"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

type SalesReportResponse struct {
	TotalSales  string           `json:"total_sales"`
	TotalOrders int64            `json:"total_orders"`
	ByStatus    map[string]int64 `json:"by_status"`
}

func (p *OrderPresenter) ToResponse(o entity.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.StringFixed(2),
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Email:           o.Email,
		Remarks:         o.Remarks,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
	}
}

func (p *OrderPresenter) ToList(orders []entity.Order) []*OrderResponse {
	result := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, p.ToResponse(o))
	}
	return result
}

func (p *OrderPresenter) ToReport(r usecase.SalesReport) *SalesReportResponse {
	byStatus := make(map[string]int64, len(entity.AllStatuses()))
	for _, st := range entity.AllStatuses() {
		byStatus[string(st)] = r.ByStatus[st]
	}
	return &SalesReportResponse{
		TotalSales:  r.TotalSales.StringFixed(2),
		TotalOrders: r.TotalOrders,
		ByStatus:    byStatus,
	}
}
