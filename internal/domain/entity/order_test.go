package entity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestNewOrder_Total(t *testing.T) {
	items := []CartItem{
		{ProductID: 1, ProductName: "Laptop", Quantity: 1, Price: decimal.NewFromInt(1500)},
		{ProductID: 3, ProductName: "Tablet", Quantity: 2, Price: decimal.NewFromInt(400)},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	o := NewOrder(7, "ABC", items, Delivery{ShippingAddress: "1 Main St", Email: "a@b.c"}, now)

	if o.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}
	if !o.TotalAmount.Equal(decimal.RequireFromString("2300.00")) {
		t.Fatalf("expected total 2300.00, got %s", o.TotalAmount)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	if o.Items[1].ProductName != "Tablet" || o.Items[1].Quantity != 2 {
		t.Fatalf("unexpected second item %+v", o.Items[1])
	}
	if !o.CreatedAt.Equal(now) || o.UserID != 7 || o.OrderNumber != "ABC" {
		t.Fatalf("unexpected order header %+v", o)
	}
}

func TestNewOrder_TotalMatchesItems(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "items")
		items := make([]CartItem, 0, n)
		want := decimal.Zero
		for i := 0; i < n; i++ {
			cents := rapid.Int64Range(0, 10_000_000).Draw(t, "cents")
			qty := rapid.IntRange(1, 50).Draw(t, "qty")
			price := decimal.New(cents, -2)
			items = append(items, CartItem{ProductID: int64(i + 1), Quantity: qty, Price: price})
			want = want.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		o := NewOrder(1, "N", items, Delivery{}, time.Now())

		if !o.TotalAmount.Equal(want) {
			t.Fatalf("total %s != expected %s", o.TotalAmount, want)
		}
		if !o.TotalAmount.Equal(o.ItemsTotal()) {
			t.Fatalf("total %s != items total %s", o.TotalAmount, o.ItemsTotal())
		}
		if !o.TotalAmount.Equal(CartTotal(items)) {
			t.Fatalf("total %s != cart total %s", o.TotalAmount, CartTotal(items))
		}
	})
}

func TestIdentity_CanView(t *testing.T) {
	owner := Identity{UserID: 5, Role: RoleUser}
	other := Identity{UserID: 6, Role: RoleUser}
	admin := Identity{UserID: 1, Role: ParseRole("admin")}

	if !owner.CanView(5) || other.CanView(5) || !admin.CanView(5) {
		t.Fatalf("unexpected access rules")
	}
	if (Identity{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("anonymous identity must not be admin")
	}
}

func TestMergeQuantity(t *testing.T) {
	if n, err := MergeQuantity(3, 2); err != nil || n != 5 {
		t.Fatalf("expected 5, got %d (%v)", n, err)
	}
	if n, err := MergeQuantity(MaxItemQuantity-1, 1); err != nil || n != MaxItemQuantity {
		t.Fatalf("expected %d, got %d (%v)", MaxItemQuantity, n, err)
	}

	for _, tc := range []struct{ current, qty int }{
		{MaxItemQuantity, 1},
		{1, math.MaxInt},
		{1, 0},
	} {
		var invalid *ValidationError
		if _, err := MergeQuantity(tc.current, tc.qty); !errors.As(err, &invalid) {
			t.Fatalf("MergeQuantity(%d, %d): expected validation error, got %v", tc.current, tc.qty, err)
		}
	}
}
