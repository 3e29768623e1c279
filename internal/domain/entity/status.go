package entity

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// SettledStatuses are the statuses counted as realized revenue.
var SettledStatuses = []OrderStatus{StatusCompleted, StatusDelivered}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusCompleted, StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusCompleted: {StatusDelivered},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusCompleted, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseOrderStatus accepts a status name in any case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s OrderStatus) Settled() bool {
	for _, st := range SettledStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s. Staying in
// the same status is not a transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }
