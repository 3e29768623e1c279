package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

const (
	cartItemsQuery = `
		SELECT c.id, c.user_id, c.product_id, p.name, c.quantity, c.price, c.created_at, c.updated_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.id
	`
	addCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		WHERE cart_items.quantity + EXCLUDED.quantity <= $6
		RETURNING id, quantity, price, created_at, updated_at
	`
	updateCartItemQuery = `
		UPDATE cart_items c
		SET quantity = $1, updated_at = $2
		FROM products p
		WHERE c.id = $3 AND c.user_id = $4 AND p.id = c.product_id
		RETURNING c.id, c.user_id, c.product_id, p.name, c.quantity, c.price, c.created_at, c.updated_at
	`
	removeCartItemQuery = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
	clearCartItemsQuery = `DELETE FROM cart_items WHERE id = ANY($1)`
)

// CartRepository stores cart lines in cart_items. Inside a checkout the
// lines are read FOR UPDATE so edits and a second checkout wait for commit.
type CartRepository struct {
	db        DBTX
	forUpdate bool
}

var _ repository.CartRepository = (*CartRepository)(nil)

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Items(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	q := cartItemsQuery
	if r.forUpdate {
		q += " FOR UPDATE OF c"
	}
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]entity.CartItem, 0)
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *CartRepository) Clear(ctx context.Context, items []entity.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	res, err := r.db.ExecContext(ctx, clearCartItemsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if n != int64(len(ids)) {
		return entity.ErrCartChanged
	}
	return nil
}

// Add merges into an existing line only while the sum stays within
// entity.MaxItemQuantity; the guarded upsert returns no row otherwise.
func (r *CartRepository) Add(ctx context.Context, userID int64, p entity.Product, qty int) (entity.CartItem, error) {
	if err := entity.CheckQuantity(qty); err != nil {
		return entity.CartItem{}, err
	}
	it := entity.CartItem{UserID: userID, ProductID: p.ID, ProductName: p.Name}
	err := r.db.QueryRowContext(ctx, addCartItemQuery, userID, p.ID, qty, p.Price, time.Now().UTC(), entity.MaxItemQuantity).
		Scan(&it.ID, &it.Quantity, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.CartItem{}, &entity.ValidationError{Field: "quantity", Message: "cart line would exceed " + strconv.Itoa(entity.MaxItemQuantity)}
	}
	if err != nil {
		return entity.CartItem{}, fmt.Errorf("add cart item: %w", err)
	}
	return it, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (entity.CartItem, error) {
	if err := entity.CheckQuantity(qty); err != nil {
		return entity.CartItem{}, err
	}
	it, err := scanCartItem(r.db.QueryRowContext(ctx, updateCartItemQuery, qty, time.Now().UTC(), itemID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.CartItem{}, entity.ErrCartItemNotFound
	}
	if err != nil {
		return entity.CartItem{}, fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	return it, nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, removeCartItemQuery, itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item %d: %w", itemID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrCartItemNotFound
	}
	return nil
}

func scanCartItem(row rowScanner) (entity.CartItem, error) {
	var it entity.CartItem
	err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}
