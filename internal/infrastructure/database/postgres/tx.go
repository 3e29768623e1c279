package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/shop-backend/internal/domain/repository"
)

// TxManager runs a checkout in one READ COMMITTED transaction. Stock safety
// comes from the conditional decrement, not from the isolation level.
type TxManager struct {
	db *sql.DB
}

var _ repository.TxManager = (*TxManager)(nil)

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Carts() repository.CartStore {
	return &CartRepository{db: t.tx, forUpdate: true}
}

func (t sqlTx) Catalog() repository.ProductCatalog { return NewProductRepository(t.tx) }

func (t sqlTx) Orders() repository.OrderWriter { return NewOrderRepository(t.tx) }
