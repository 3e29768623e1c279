package repository

import "context"

// Tx exposes the stores bound to one transaction.
type Tx interface {
	Carts() CartStore
	Catalog() ProductCatalog
	Orders() OrderWriter
}

// TxManager runs fn in a transaction. It commits when fn returns nil and
// rolls back every change otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
