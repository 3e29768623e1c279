//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	c, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("shop"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.EnsureSchema(ctx, db))
	return db
}

func TestCheckoutAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := postgres.SeedProducts(ctx, db, usecase.SampleProducts())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	products := postgres.NewProductRepository(db)
	carts := postgres.NewCartRepository(db)
	orders := postgres.NewOrderRepository(db)
	svc := usecase.NewOrderService(postgres.NewTxManager(db), orders, log)
	cartSvc := usecase.NewCartService(carts, products, log)

	list, err := products.List(ctx)
	require.NoError(t, err)
	laptop, phone := list[0], list[1]

	buyer := entity.Identity{UserID: 42, Role: entity.RoleUser}
	_, err = cartSvc.AddItem(ctx, buyer, usecase.AddCartItemInput{ProductID: laptop.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, buyer, usecase.AddCartItemInput{ProductID: phone.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, buyer, usecase.CreateOrderInput{ShippingAddress: "1 Main St", Email: "buyer@example.com"})
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("2300.00").Equal(order.TotalAmount))

	stored, err := orders.GetByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	require.Equal(t, entity.StatusPending, stored.Status)

	after, err := products.Get(ctx, laptop.ID)
	require.NoError(t, err)
	require.Equal(t, laptop.Stock-1, after.Stock)

	items, err := carts.Items(ctx, buyer.UserID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestLastUnitRaceAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	products := postgres.NewProductRepository(db)
	carts := postgres.NewCartRepository(db)
	svc := usecase.NewOrderService(postgres.NewTxManager(db), postgres.NewOrderRepository(db), log)

	p, err := products.Create(ctx, entity.Product{Name: "Last one", Price: decimal.RequireFromString("10.00"), Stock: 1})
	require.NoError(t, err)

	buyers := []entity.Identity{{UserID: 1, Role: entity.RoleUser}, {UserID: 2, Role: entity.RoleUser}}
	for _, b := range buyers {
		_, err := carts.Add(ctx, b.UserID, p, 1)
		require.NoError(t, err)
	}

	results := make([]error, len(buyers))
	var g errgroup.Group
	for i, b := range buyers {
		g.Go(func() error {
			_, results[i] = svc.CreateOrder(ctx, b, usecase.CreateOrderInput{ShippingAddress: "x", Email: "b@example.com"})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var placed, rejected int
	for _, err := range results {
		var stock *entity.InsufficientStockError
		switch {
		case err == nil:
			placed++
		case errors.As(err, &stock):
			rejected++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	require.Equal(t, 1, placed)
	require.Equal(t, 1, rejected)

	final, err := products.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, final.Stock)
}
