// Package notifications keeps the ordered, bounded notification log shown
// in the admin console's notification center.
package notifications

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodhub-app/foodhub-console/internal/realtime"
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 50

// Category buckets notifications for display.
type Category string

const (
	CategoryNewOrder    Category = "new_order"
	CategoryOrderStatus Category = "order_status"
	CategoryKitchen     Category = "kitchen_update"
	CategoryGeneral     Category = "general"
)

// Notification is one entry in the center's log.
type Notification struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Payload   any       `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Center maintains a newest-first log capped at a fixed capacity, with an
// unread counter that always equals the number of unread entries in the
// log.
type Center struct {
	logger   *slog.Logger
	capacity int

	mu     sync.Mutex
	items  []Notification
	unread int
}

// NewCenter builds a Center. A non-positive capacity falls back to
// DefaultCapacity.
func NewCenter(capacity int, logger *slog.Logger) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{logger: logger, capacity: capacity}
}

// Attach registers the center for every canonical event kind.
func (c *Center) Attach(d *realtime.Dispatcher) {
	for _, kind := range []realtime.Kind{
		realtime.KindOrderCreated,
		realtime.KindOrderStatusChanged,
		realtime.KindKitchenUpdate,
		realtime.KindSystemNotification,
	} {
		d.Register(kind, c.HandleEvent)
	}
}

// HandleEvent derives a notification from a canonical event and prepends
// it to the log.
func (c *Center) HandleEvent(event realtime.Event) {
	switch e := event.(type) {
	case realtime.OrderCreated:
		c.add(CategoryNewOrder,
			"New Order Received",
			fmt.Sprintf("Order #%s from %s", e.Order.OrderNumber, e.Order.CustomerName),
			e)
	case realtime.OrderStatusChanged:
		c.add(CategoryOrderStatus,
			"Order Status Updated",
			fmt.Sprintf("Order #%s is now %s", e.Order.OrderNumber, e.NewStatus.Label()),
			e)
	case realtime.KitchenUpdate:
		c.add(CategoryKitchen, "Kitchen Update", e.Message, e)
	case realtime.SystemNotification:
		c.add(CategoryGeneral, "System Notification", e.Message, e)
	default:
		c.logger.Debug("ignoring event kind", slog.String("kind", string(event.EventKind())))
	}
}

func (c *Center) add(category Category, title, message string, payload any) {
	entry := Notification{
		ID:        uuid.NewString(),
		Category:  category,
		Title:     title,
		Message:   message,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.items = append([]Notification{entry}, c.items...)
	if len(c.items) > c.capacity {
		for _, dropped := range c.items[c.capacity:] {
			if !dropped.Read {
				c.unread--
			}
		}
		c.items = c.items[:c.capacity]
	}
	c.unread++
	c.mu.Unlock()
}

// List returns a copy of the log, newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount returns the number of unread entries in the log.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// MarkRead flags the notification as read. Idempotent; unknown ids are
// ignored.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if !c.items[i].Read {
			c.items[i].Read = true
			if c.unread > 0 {
				c.unread--
			}
		}
		return
	}
}

// MarkAllRead flags every entry as read and zeroes the unread counter.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
	c.unread = 0
}

// Dismiss removes the notification from the log. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if !c.items[i].Read && c.unread > 0 {
			c.unread--
		}
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		return
	}
}
