package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/shop-backend/internal/infrastructure/idempotency"
	"github.com/wichananm65/shop-backend/internal/interface/presenter"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler serves checkout, order lookups, status updates and reports.
type OrderHandler struct {
	orders    usecase.OrderUsecase
	presenter *presenter.OrderPresenter
	idem      idempotency.Store
	log       *slog.Logger
}

// NewOrderHandler builds the handler. idem may be nil, in which case the
// Idempotency-Key header is ignored.
func NewOrderHandler(orders usecase.OrderUsecase, p *presenter.OrderPresenter, idem idempotency.Store, log *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, presenter: p, idem: idem, log: log}
}

func (h *OrderHandler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/v1/orders", h.createOrder)
	r.Get("/api/v1/orders", h.listMyOrders)
	r.Get("/api/v1/orders/number/:orderNumber", h.getByNumber)
	r.Get("/api/v1/orders/:id", h.getByID)
	r.Put("/api/v1/orders/:id/status", h.updateStatus)

	r.Get("/api/v1/reports/sales", h.salesReport)
	r.Get("/api/v1/reports/orders", h.listOrders)
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Email           string `json:"email"`
	Remarks         string `json:"remarks"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) createOrder(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.UserContext()
	input := usecase.CreateOrderInput{
		ShippingAddress: payload.ShippingAddress,
		Email:           payload.Email,
		Remarks:         payload.Remarks,
	}

	key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	if key == "" || h.idem == nil {
		order, err := h.orders.CreateOrder(ctx, id, input)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(h.presenter.ToResponse(order))
	}

	// keys are scoped per user so two buyers cannot collide
	scoped := fmt.Sprintf("%d:%s", id.UserID, key)
	number, claimed, err := h.idem.Claim(ctx, scoped)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !claimed {
		order, err := h.orders.GetOrderByOrderNumber(ctx, id, number)
		if err != nil {
			return writeError(c, h.log, err)
		}
		c.Set("Idempotent-Replayed", "true")
		return c.Status(fiber.StatusOK).JSON(h.presenter.ToResponse(order))
	}

	order, err := h.orders.CreateOrder(ctx, id, input)
	if err != nil {
		h.release(ctx, scoped)
		return writeError(c, h.log, err)
	}
	h.complete(ctx, scoped, order.OrderNumber)
	return c.Status(fiber.StatusCreated).JSON(h.presenter.ToResponse(order))
}

// complete records the placed order under key, trying twice. If both fail
// the key stays pending until its TTL runs out, so the order number is
// logged for manual reconciliation.
func (h *OrderHandler) complete(ctx context.Context, key, number string) {
	err := h.idem.Complete(ctx, key, number)
	if err == nil {
		return
	}
	h.log.WarnContext(ctx, "idempotency complete failed, retrying",
		slog.String("order_number", number),
		slog.Any("err", err),
	)
	if err = h.idem.Complete(ctx, key, number); err != nil {
		h.log.ErrorContext(ctx, "idempotency key left pending",
			slog.String("idempotency_key", key),
			slog.String("order_number", number),
			slog.Any("err", err),
		)
	}
}

func (h *OrderHandler) release(ctx context.Context, key string) {
	if err := h.idem.Release(ctx, key); err != nil {
		h.log.WarnContext(ctx, "idempotency release failed", slog.Any("err", err))
	}
}

func (h *OrderHandler) listMyOrders(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	orders, err := h.orders.GetOrdersByUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToList(orders))
}

func (h *OrderHandler) getByID(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.orders.GetOrderByID(c.UserContext(), id, orderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToResponse(order))
}

func (h *OrderHandler) getByNumber(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.orders.GetOrderByOrderNumber(c.UserContext(), id, c.Params("orderNumber"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToResponse(order))
}

func (h *OrderHandler) updateStatus(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	order, err := h.orders.UpdateOrderStatus(c.UserContext(), id, orderID, payload.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToResponse(order))
}

// listOrders returns every order, or only those in ?status= when given.
func (h *OrderHandler) listOrders(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	ctx := c.UserContext()
	status := c.Query("status")
	if status == "" {
		orders, err := h.orders.GetAllOrders(ctx, id)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(h.presenter.ToList(orders))
	}
	orders, err := h.orders.GetOrdersByStatus(ctx, id, status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToList(orders))
}

func (h *OrderHandler) salesReport(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	report, err := h.orders.GetSalesReport(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.presenter.ToReport(report))
}
