// Package orders exposes the platform's order records and the console-side
// order workflow rules.
package orders

import "time"

// Status is an order lifecycle status as served by the platform API.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:        "Pending",
	StatusConfirmed:      "Confirmed",
	StatusPreparing:      "Preparing",
	StatusReady:          "Ready",
	StatusOutForDelivery: "Out for delivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// Label returns the display label for s.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsCompleted reports whether the order reached its terminal success state.
func (s Status) IsCompleted() bool {
	return s == StatusDelivered
}

// IsActive reports whether the order is still in flight.
func (s Status) IsActive() bool {
	return s != StatusDelivered && s != StatusCancelled
}

// CanCancel reports whether an order in this status may still be cancelled.
func (s Status) CanCancel() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing:
		return true
	}
	return false
}

// Next returns the following status in the fulfilment flow, or "" for
// terminal statuses.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusPreparing
	case StatusPreparing:
		return StatusReady
	case StatusReady:
		return StatusOutForDelivery
	case StatusOutForDelivery:
		return StatusDelivered
	}
	return ""
}

// OrderItem is a line on an order.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	Notes       string  `json:"notes,omitempty"`
}

// Order is an order record as served by the platform API.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Status          Status      `json:"status"`
	Channel         string      `json:"channel"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	RestaurantID    int64       `json:"restaurant_id"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
