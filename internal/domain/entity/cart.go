package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps the quantity of a single cart line, merged adds
// included.
const MaxItemQuantity = 10000

// CheckQuantity rejects line quantities outside 1..MaxItemQuantity.
func CheckQuantity(qty int) error {
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	if qty > MaxItemQuantity {
		return &ValidationError{Field: "quantity", Message: "must not exceed " + strconv.Itoa(MaxItemQuantity)}
	}
	return nil
}

// MergeQuantity adds qty to a line already holding current units.
func MergeQuantity(current, qty int) (int, error) {
	if err := CheckQuantity(qty); err != nil {
		return 0, err
	}
	if current > MaxItemQuantity-qty {
		return 0, &ValidationError{Field: "quantity", Message: "cart line would exceed " + strconv.Itoa(MaxItemQuantity)}
	}
	return current + qty, nil
}

// CartItem is one line of a user's cart. Price is captured when the product
// is first added and is what the order is charged.
type CartItem struct {
	ID          int64
	UserID      int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums the subtotals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
