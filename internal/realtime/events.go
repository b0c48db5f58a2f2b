// Package realtime ingests live events from the platform's pub/sub fabric
// and fans them out, normalized, to in-process consumers.
package realtime

import "github.com/foodhub-app/foodhub-console/internal/orders"

// Kind identifies a canonical event variant.
type Kind string

const (
	KindOrderCreated       Kind = "order_created"
	KindOrderStatusChanged Kind = "order_status_changed"
	KindKitchenUpdate      Kind = "kitchen_update"
	KindSystemNotification Kind = "system_notification"
)

// Event is the canonical, normalized form of an inbound message. Values
// are immutable once constructed by the dispatcher.
type Event interface {
	EventKind() Kind
}

// OrderCreated announces a newly placed order.
type OrderCreated struct {
	Order orders.Order
}

func (OrderCreated) EventKind() Kind { return KindOrderCreated }

// OrderStatusChanged announces an order moving through the fulfilment flow.
type OrderStatusChanged struct {
	OrderID        int64
	PreviousStatus orders.Status
	NewStatus      orders.Status
	Order          orders.Order
}

func (OrderStatusChanged) EventKind() Kind { return KindOrderStatusChanged }

// KitchenUpdate carries a free-form message from the kitchen display.
type KitchenUpdate struct {
	OrderID int64
	Message string
}

func (KitchenUpdate) EventKind() Kind { return KindKitchenUpdate }

// Severity grades a system notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SystemNotification carries an operator-facing platform message.
type SystemNotification struct {
	Severity Severity
	Message  string
}

func (SystemNotification) EventKind() Kind { return KindSystemNotification }
