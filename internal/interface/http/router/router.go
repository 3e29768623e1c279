package router

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wichananm65/shop-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/shop-backend/internal/interface/http/handler"
)

// Deps is everything New needs to assemble the app.
type Deps struct {
	JWTSecret string
	Log       *slog.Logger
	Gatherer  prometheus.Gatherer
	Metrics   *metrics.ServerMetrics

	Products *handler.ProductHandler
	Carts    *handler.CartHandler
	Orders   *handler.OrderHandler
}

// New builds the fiber app. Health, metrics and catalog reads are public;
// everything registered after the jwt middleware needs a valid token.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shop-backend",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: errorHandler(d.Log),
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))
	if d.Metrics != nil {
		app.Use(observe(d.Metrics))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Gatherer)))
	}
	d.Products.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(d.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	d.Products.RegisterProtectedRoutes(app)
	d.Carts.RegisterProtectedRoutes(app)
	d.Orders.RegisterProtectedRoutes(app)
	return app
}

func observe(m *metrics.ServerMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		m.Observe(c.Route().Path, c.Method(), status, time.Since(start))
		return err
	}
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Method(), "path", c.Path(), "err", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
}
