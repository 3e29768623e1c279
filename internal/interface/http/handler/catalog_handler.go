package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/interface/presenter"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

// ProductHandler serves the catalog. Reads are public, writes need an admin.
type ProductHandler struct {
	products  usecase.ProductUsecase
	presenter *presenter.CatalogPresenter
	log       *slog.Logger
}

func NewProductHandler(products usecase.ProductUsecase, p *presenter.CatalogPresenter, log *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, presenter: p, log: log}
}

func (h *ProductHandler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/v1/products", h.list)
	r.Get("/api/v1/products/:id", h.get)
}

func (h *ProductHandler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/v1/products", h.create)
	r.Put("/api/v1/products/:id", h.update)
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

func (p productRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}
}

func (h *ProductHandler) list(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.Products(products))
}

func (h *ProductHandler) get(c *fiber.Ctx) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	product, err := h.products.Get(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.Product(product))
}

func (h *ProductHandler) create(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	product, err := h.products.Create(c.UserContext(), id, payload.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.presenter.Product(product))
}

func (h *ProductHandler) update(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	productID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	product, err := h.products.Update(c.UserContext(), id, productID, payload.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.Product(product))
}

// CartHandler edits the caller's cart.
type CartHandler struct {
	carts     usecase.CartUsecase
	presenter *presenter.CatalogPresenter
	log       *slog.Logger
}

func NewCartHandler(carts usecase.CartUsecase, p *presenter.CatalogPresenter, log *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, presenter: p, log: log}
}

func (h *CartHandler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/v1/cart", h.getCart)
	r.Post("/api/v1/cart", h.addItem)
	r.Put("/api/v1/cart/:itemId", h.updateItem)
	r.Delete("/api/v1/cart/:itemId", h.removeItem)
}

type cartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) getCart(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	cart, err := h.carts.GetCart(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.Cart(cart))
}

func (h *CartHandler) addItem(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	item, err := h.carts.AddItem(c.UserContext(), id, usecase.AddCartItemInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.presenter.CartItem(item))
}

func (h *CartHandler) updateItem(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := h.carts.UpdateItem(c.UserContext(), id, itemID, payload.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.CartItem(item))
}

func (h *CartHandler) removeItem(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.carts.RemoveItem(c.UserContext(), id, itemID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
