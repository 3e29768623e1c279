package entity

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartChanged          = errors.New("cart changed during checkout")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrStatusConflict       = errors.New("order status changed concurrently")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)

// InsufficientStockError reports the first product that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.ProductName, e.Available, e.Requested)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// PersistenceError hides storage failures from callers. Error is generic;
// the cause stays reachable through Unwrap for logging.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "order could not be processed" }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Cause renders the operation and underlying error for logs.
func (e *PersistenceError) Cause() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// IsUserFacing reports whether err is a validation outcome the caller can act
// on, as opposed to a system failure.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var (
		stock      *InsufficientStockError
		transition *InvalidTransitionError
		invalid    *ValidationError
	)
	switch {
	case errors.As(err, &stock), errors.As(err, &transition), errors.As(err, &invalid):
		return true
	}
	for _, target := range []error{
		ErrEmptyCart, ErrCartChanged, ErrOrderNotFound, ErrProductNotFound,
		ErrCartItemNotFound, ErrUnauthorized, ErrForbidden, ErrInvalidStatus, ErrStatusConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
