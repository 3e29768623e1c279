package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

const (
	orderColumns = `id, order_number, user_id, status, shipping_address, email, remarks, total_amount, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, status, shipping_address, email, remarks, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	orderByIDQuery       = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	orderByNumberQuery   = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	ordersByUserQuery    = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY id`
	ordersByStatusQuery  = `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY id`
	allOrdersQuery       = `SELECT ` + orderColumns + ` FROM orders ORDER BY id`
	orderItemsQuery      = `SELECT id, order_id, product_id, product_name, quantity, price FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	orderExistsQuery     = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`
	sumOrderTotalsQuery  = `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ANY($1)`
	countOrdersQuery     = `SELECT COUNT(*) FROM orders`
	totalsByStatusQuery  = `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders GROUP BY status`
	updateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + orderColumns
)

// OrderRepository keeps orders in orders and order_items.
type OrderRepository struct {
	db DBTX
}

var _ repository.OrderLedger = (*OrderRepository)(nil)

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create must run inside a transaction when the order has items, otherwise a
// failed item insert leaves a header behind.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	err := r.db.QueryRowContext(ctx, insertOrderQuery,
		o.OrderNumber, o.UserID, string(o.Status), o.ShippingAddress, o.Email, o.Remarks,
		o.TotalAmount, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if isUniqueViolation(err) {
		return entity.ErrDuplicateOrderNumber
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if err := r.db.QueryRowContext(ctx, insertOrderItemQuery,
			it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.Price,
		).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (entity.Order, error) {
	return r.getOne(ctx, orderByIDQuery, id)
}

func (r *OrderRepository) GetByOrderNumber(ctx context.Context, number string) (entity.Order, error) {
	return r.getOne(ctx, orderByNumberQuery, number)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	return r.list(ctx, ordersByUserQuery, userID)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	return r.list(ctx, ordersByStatusQuery, string(status))
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, allOrdersQuery)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to entity.OrderStatus, at time.Time) (entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, updateOrderStatusSQL, string(to), at, id, string(from)))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, orderExistsQuery, id).Scan(&exists); err != nil {
			return entity.Order{}, fmt.Errorf("check order %d: %w", id, err)
		}
		if !exists {
			return entity.Order{}, entity.ErrOrderNotFound
		}
		return entity.Order{}, entity.ErrStatusConflict
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("update order %d status: %w", id, err)
	}
	orders := []entity.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return entity.Order{}, err
	}
	return orders[0], nil
}

func (r *OrderRepository) SumTotal(ctx context.Context, statuses []entity.OrderStatus) (decimal.Decimal, error) {
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, string(st))
	}
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, sumOrderTotalsQuery, pq.Array(names)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum order totals: %w", err)
	}
	return total, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countOrdersQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// TotalsByStatus is a single statement, so counts and sums come from the
// same snapshot.
func (r *OrderRepository) TotalsByStatus(ctx context.Context) (map[entity.OrderStatus]repository.StatusTotals, error) {
	rows, err := r.db.QueryContext(ctx, totalsByStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("order totals by status: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.OrderStatus]repository.StatusTotals)
	for rows.Next() {
		var (
			status string
			t      repository.StatusTotals
		)
		if err := rows.Scan(&status, &t.Count, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan status totals: %w", err)
		}
		out[entity.OrderStatus(status)] = t
	}
	return out, rows.Err()
}

func (r *OrderRepository) getOne(ctx context.Context, query string, arg any) (entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, entity.ErrOrderNotFound
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("get order: %w", err)
	}
	orders := []entity.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return entity.Order{}, err
	}
	return orders[0], nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads the items of all orders with one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].Items = make([]entity.OrderItem, 0)
	}

	rows, err := r.db.QueryContext(ctx, orderItemsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (entity.Order, error) {
	var (
		o      entity.Order
		status string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &status, &o.ShippingAddress, &o.Email, &o.Remarks,
		&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	o.Status = entity.OrderStatus(status)
	return o, err
}
