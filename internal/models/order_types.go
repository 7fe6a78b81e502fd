package models

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order. Statuses used to be
// free-text set by the admin; they are now a closed set with an enforced
// transition graph.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus validates a raw status string coming from a request.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order is the model for the 'orders' table. Orders are immutable once
// created except for their status.
type Order struct {
	ID            int64       `json:"id" db:"id"`
	UserID        int64       `json:"userId,omitempty" db:"user_id"` // 0 for guest checkout
	CustomerName  string      `json:"customerName" db:"customer_name"`
	CustomerPhone string      `json:"customerPhone" db:"customer_phone"`
	CustomerCity  string      `json:"customerCity" db:"customer_city"`
	CustomerAddr  string      `json:"customerAddress" db:"customer_address"`
	PaymentMethod string      `json:"paymentMethod" db:"payment_method"`
	Status        OrderStatus `json:"status" db:"status"`
	Total         float64     `json:"total" db:"total"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not in the orders table, populated manually)
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table. Name and price are
// snapshotted at order time, so catalog edits never alter past orders.
type OrderItem struct {
	ID          int64     `json:"id" db:"id"`
	OrderID     int64     `json:"orderId" db:"order_id"`
	ProductID   int64     `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unitPrice" db:"unit_price"`
	LineTotal   float64   `json:"lineTotal" db:"line_total"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
