package presenter

import (
	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

// CatalogPresenter shapes products and carts.
type CatalogPresenter struct{}

func NewCatalogPresenter() *CatalogPresenter {
	return &CatalogPresenter{}
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

type CartItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}

func (p *CatalogPresenter) Product(pr entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:          pr.ID,
		Name:        pr.Name,
		Description: pr.Description,
		Price:       pr.Price.StringFixed(2),
		Stock:       pr.Stock,
		ImageURL:    pr.ImageURL,
	}
}

func (p *CatalogPresenter) Products(list []entity.Product) []*ProductResponse {
	result := make([]*ProductResponse, 0, len(list))
	for _, pr := range list {
		result = append(result, p.Product(pr))
	}
	return result
}

func (p *CatalogPresenter) CartItem(it entity.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		Price:       it.Price.StringFixed(2),
		Subtotal:    it.Subtotal().StringFixed(2),
	}
}

func (p *CatalogPresenter) Cart(c usecase.Cart) *CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, p.CartItem(it))
	}
	return &CartResponse{Items: items, Total: c.Total.StringFixed(2)}
}
