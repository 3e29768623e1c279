package entity

import (
	"errors"
	"testing"
)

func TestOrderStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusPending, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusPending, false},
		{StatusCompleted, StatusDelivered, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s == StatusDelivered || s == StatusCancelled
		if s.Terminal() != want {
			t.Fatalf("%s terminal: expected %v", s, want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus(" shipped ")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if st != StatusShipped {
		t.Fatalf("expected SHIPPED, got %s", st)
	}

	if _, err := ParseOrderStatus("LOST"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSettledStatuses(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s == StatusCompleted || s == StatusDelivered
		if s.Settled() != want {
			t.Fatalf("%s settled: expected %v", s, want)
		}
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(&InsufficientStockError{ProductName: "Laptop"}) {
		t.Fatalf("stock error should be user facing")
	}
	if !IsUserFacing(ErrEmptyCart) {
		t.Fatalf("empty cart should be user facing")
	}
	if IsUserFacing(&PersistenceError{Op: "insert order", Err: errors.New("conn reset")}) {
		t.Fatalf("persistence error must not be user facing")
	}
	if IsUserFacing(nil) {
		t.Fatalf("nil is not an error")
	}
}
