package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		stock       INTEGER NOT NULL CHECK (stock >= 0),
		image_url   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity   INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 10000),
		price      NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               BIGSERIAL PRIMARY KEY,
		order_number     TEXT NOT NULL UNIQUE,
		user_id          BIGINT NOT NULL,
		status           TEXT NOT NULL,
		shipping_address TEXT NOT NULL,
		email            TEXT NOT NULL,
		remarks          TEXT NOT NULL DEFAULT '',
		total_amount     NUMERIC(12,2) NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGSERIAL PRIMARY KEY,
		order_id     BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id   BIGINT NOT NULL,
		product_name TEXT NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		price        NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedProducts inserts products when the catalog is empty and reports how
// many rows were added.
func SeedProducts(ctx context.Context, db *sql.DB, products []entity.Product) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	repo := NewProductRepository(db)
	for _, p := range products {
		if _, err := repo.Create(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}
