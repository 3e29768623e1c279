package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/infrastructure/idempotency"
)

func errorStatus(err error) (int, fiber.Map) {
	var (
		stock      *entity.InsufficientStockError
		transition *entity.InvalidTransitionError
		invalid    *entity.ValidationError
		persist    *entity.PersistenceError
		fe         *fiber.Error
	)
	switch {
	case errors.As(err, &stock):
		return fiber.StatusConflict, fiber.Map{
			"message":     stock.Error(),
			"code":        "INSUFFICIENT_STOCK",
			"productId":   stock.ProductID,
			"productName": stock.ProductName,
			"available":   stock.Available,
			"requested":   stock.Requested,
		}
	case errors.As(err, &transition):
		return fiber.StatusConflict, fiber.Map{"message": transition.Error(), "code": "INVALID_TRANSITION"}
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, fiber.Map{"message": invalid.Error(), "code": "VALIDATION", "field": invalid.Field}
	case errors.Is(err, entity.ErrEmptyCart):
		return fiber.StatusBadRequest, fiber.Map{"message": err.Error(), "code": "EMPTY_CART"}
	case errors.Is(err, entity.ErrInvalidStatus):
		return fiber.StatusBadRequest, fiber.Map{"message": err.Error(), "code": "INVALID_STATUS"}
	case errors.Is(err, entity.ErrCartChanged):
		return fiber.StatusConflict, fiber.Map{"message": err.Error(), "code": "CART_CHANGED"}
	case errors.Is(err, entity.ErrStatusConflict):
		return fiber.StatusConflict, fiber.Map{"message": err.Error(), "code": "STATUS_CONFLICT"}
	case errors.Is(err, idempotency.ErrInProgress):
		return fiber.StatusConflict, fiber.Map{"message": err.Error(), "code": "IDEMPOTENCY_IN_PROGRESS"}
	case errors.Is(err, entity.ErrOrderNotFound),
		errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrCartItemNotFound):
		return fiber.StatusNotFound, fiber.Map{"message": err.Error()}
	case errors.Is(err, entity.ErrUnauthorized):
		return fiber.StatusUnauthorized, fiber.Map{"message": "unauthorized"}
	case errors.Is(err, entity.ErrForbidden):
		return fiber.StatusForbidden, fiber.Map{"message": "forbidden"}
	case errors.As(err, &persist):
		return fiber.StatusInternalServerError, fiber.Map{"message": persist.Error()}
	case errors.As(err, &fe):
		return fe.Code, fiber.Map{"message": fe.Message}
	default:
		return fiber.StatusInternalServerError, fiber.Map{"message": "internal server error"}
	}
}

// writeError maps domain errors to a status and JSON body. Server errors are
// logged with their cause; the body stays generic.
func writeError(c *fiber.Ctx, log *slog.Logger, err error) error {
	status, body := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("err", err),
		)
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}
