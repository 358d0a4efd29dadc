package model

import (
	"time"

	"fieldsales-backend/internal/domain"
)

// OrderStatus is a closed set of order states with an explicit transition
// table; free-text statuses are rejected at the boundary.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// transitions is the allowed edge set: pending → confirmed|cancelled,
// confirmed → fulfilled|cancelled. Fulfilled and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusFulfilled, OrderStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order. UnitPrice is snapshotted at creation time
// and never re-read from the catalog.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Subtotal    float64
}

// Order owns its items; an order never exists without at least one item, and
// totals always equal the sum of item subtotals computed at creation.
type Order struct {
	ID            string
	OrderNumber   string
	CollectorID   string
	StoreID       string
	Status        OrderStatus
	Subtotal      float64
	TaxAmount     float64
	TotalAmount   float64
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
	CollectorName string // populated on reads via join
	StoreName     string // populated on reads via join
}

// NewOrderItem validates an order line request.
func NewOrderItem(productID string, quantity int) (OrderItem, error) {
	if productID == "" || quantity <= 0 {
		return OrderItem{}, domain.ErrInvalidOrder
	}
	return OrderItem{ProductID: productID, Quantity: quantity}, nil
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CollectorID string
	StoreID     string
	Status      OrderStatus
}
