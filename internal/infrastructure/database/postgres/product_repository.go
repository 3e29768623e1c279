package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

const (
	productColumns = `id, name, description, price, stock, image_url, created_at, updated_at`

	listProductsQuery   = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	getProductQuery     = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	productStockQuery   = `SELECT name, stock FROM products WHERE id = $1`
	decrementStockQuery = `
		UPDATE products
		SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND stock >= $1
		RETURNING ` + productColumns
	insertProductQuery = `
		INSERT INTO products (name, description, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, image_url = $5, updated_at = now()
		WHERE id = $6
		RETURNING created_at, updated_at
	`
)

// ProductRepository is a PostgreSQL catalog.
type ProductRepository struct {
	db DBTX
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (entity.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, entity.ErrProductNotFound
	}
	if err != nil {
		return entity.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// DecrementStock relies on the row lock taken by UPDATE: concurrent callers
// queue on the row and each re-checks the predicate after the previous one
// commits.
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, qty int) (entity.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, decrementStockQuery, qty, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, fmt.Errorf("decrement stock %d: %w", id, err)
	}

	var (
		name  string
		stock int
	)
	err = r.db.QueryRowContext(ctx, productStockQuery, id).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, entity.ErrProductNotFound
	}
	if err != nil {
		return entity.Product{}, fmt.Errorf("read stock %d: %w", id, err)
	}
	return entity.Product{}, &entity.InsufficientStockError{
		ProductID: id, ProductName: name, Available: stock, Requested: qty,
	}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	err := r.db.QueryRowContext(ctx, insertProductQuery, p.Name, p.Description, p.Price, p.Stock, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entity.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p entity.Product) (entity.Product, error) {
	err := r.db.QueryRowContext(ctx, updateProductQuery, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, entity.ErrProductNotFound
	}
	if err != nil {
		return entity.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return p, nil
}

func scanProduct(row rowScanner) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
