package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/infrastructure/database/inmemory"
)

func TestProductService_AdminWrites(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewProductRepository(inmemory.NewStore())
	svc := NewProductService(repo, discardLogger())

	_, err := svc.Create(ctx, buyer, ProductInput{Name: "Mouse", Price: decimal.NewFromInt(20), Stock: 5})
	require.ErrorIs(t, err, entity.ErrForbidden)

	created, err := svc.Create(ctx, admin, ProductInput{Name: "  Mouse ", Price: decimal.NewFromInt(20), Stock: 5})
	require.NoError(t, err)
	require.Equal(t, "Mouse", created.Name)

	var invalid *entity.ValidationError
	_, err = svc.Create(ctx, admin, ProductInput{Name: "Bad", Price: decimal.NewFromInt(-1)})
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "price", invalid.Field)

	for _, price := range []string{"19.999", "10000000000.00"} {
		_, err = svc.Create(ctx, admin, ProductInput{Name: "Bad", Price: decimal.RequireFromString(price), Stock: 1})
		require.ErrorAs(t, err, &invalid, price)
		require.Equal(t, "price", invalid.Field)
	}
	_, err = svc.Create(ctx, admin, ProductInput{Name: "Bad", Price: decimal.NewFromInt(1), Stock: math.MaxInt32 + 1})
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "stock", invalid.Field)

	trailing, err := svc.Create(ctx, admin, ProductInput{Name: "Cable", Price: decimal.RequireFromString("19.990"), Stock: 1})
	require.NoError(t, err)
	require.True(t, trailing.Price.Equal(decimal.RequireFromString("19.99")))

	updated, err := svc.Update(ctx, admin, created.ID, ProductInput{Name: "Mouse", Price: decimal.NewFromInt(25), Stock: 50})
	require.NoError(t, err)
	require.Equal(t, 50, updated.Stock)

	_, err = svc.Update(ctx, admin, 999, ProductInput{Name: "Ghost", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, entity.ErrProductNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
