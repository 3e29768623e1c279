package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

func TestCartRepository_Items(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCartRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM cart_items c").WithArgs(int64(42)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "product_id", "name", "quantity", "price", "created_at", "updated_at"}).
			AddRow(1, 42, 3, "Tablet", 2, "400.00", now, now))

	items, err := repo.Items(context.Background(), 42)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].ProductName != "Tablet" || items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
	if !items[0].Subtotal().Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected subtotal %s", items[0].Subtotal())
	}
}

func TestCartRepository_ClearDetectsMissingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart_items WHERE id = ANY").WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Clear(context.Background(), []entity.CartItem{{ID: 1}, {ID: 2}})
	if !errors.Is(err, entity.ErrCartChanged) {
		t.Fatalf("expected ErrCartChanged, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCartRepository_Add(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCartRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO cart_items").
		WithArgs(int64(42), int64(3), 1, sqlmock.AnyArg(), sqlmock.AnyArg(), entity.MaxItemQuantity).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "price", "created_at", "updated_at"}).
			AddRow(9, 3, "400.00", now, now))

	it, err := repo.Add(context.Background(), 42, entity.Product{ID: 3, Name: "Tablet", Price: decimal.NewFromInt(450)}, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if it.ID != 9 || it.Quantity != 3 {
		t.Fatalf("unexpected item %+v", it)
	}
	if !it.Price.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected stored price 400 to win, got %s", it.Price)
	}
}

func TestCartRepository_AddBeyondLineLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCartRepository(db)

	// merged quantity over the cap: the guarded upsert updates nothing
	mock.ExpectQuery("ON CONFLICT").
		WithArgs(int64(42), int64(3), 1, sqlmock.AnyArg(), sqlmock.AnyArg(), entity.MaxItemQuantity).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "price", "created_at", "updated_at"}))

	var invalid *entity.ValidationError
	_, err = repo.Add(context.Background(), 42, entity.Product{ID: 3, Name: "Tablet", Price: decimal.NewFromInt(400)}, 1)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = repo.Add(context.Background(), 42, entity.Product{ID: 3}, entity.MaxItemQuantity+1)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected validation error before querying, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCartRepository_RemoveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart_items WHERE id").WithArgs(int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), 42, 5); !errors.Is(err, entity.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}
