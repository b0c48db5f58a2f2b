package notifications

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub-app/foodhub-console/internal/orders"
	"github.com/foodhub-app/foodhub-console/internal/realtime"
)

func orderCreated(number string) realtime.OrderCreated {
	return realtime.OrderCreated{Order: orders.Order{
		OrderNumber:  number,
		CustomerName: "Ayu",
		Status:       orders.StatusPending,
	}}
}

func TestNotificationsNewestFirst(t *testing.T) {
	c := NewCenter(10, nil)

	c.HandleEvent(orderCreated("ORD-001"))
	c.HandleEvent(orderCreated("ORD-002"))
	c.HandleEvent(orderCreated("ORD-003"))

	items := c.List()
	require.Len(t, items, 3)
	assert.Equal(t, "Order #ORD-003 from Ayu", items[0].Message)
	assert.Equal(t, "Order #ORD-001 from Ayu", items[2].Message)
	assert.Equal(t, 3, c.UnreadCount())
}

func TestNotificationTitlesAndCategories(t *testing.T) {
	c := NewCenter(10, nil)

	c.HandleEvent(orderCreated("ORD-001"))
	c.HandleEvent(realtime.OrderStatusChanged{
		OrderID:        1,
		PreviousStatus: orders.StatusConfirmed,
		NewStatus:      orders.StatusOutForDelivery,
		Order:          orders.Order{OrderNumber: "ORD-001"},
	})
	c.HandleEvent(realtime.KitchenUpdate{OrderID: 1, Message: "86 the salmon"})
	c.HandleEvent(realtime.SystemNotification{Severity: realtime.SeverityWarning, Message: "maintenance at midnight"})

	items := c.List()
	require.Len(t, items, 4)

	assert.Equal(t, CategoryGeneral, items[0].Category)
	assert.Equal(t, "System Notification", items[0].Title)
	assert.Equal(t, CategoryKitchen, items[1].Category)
	assert.Equal(t, "86 the salmon", items[1].Message)
	assert.Equal(t, CategoryOrderStatus, items[2].Category)
	assert.Equal(t, "Order #ORD-001 is now Out for delivery", items[2].Message)
	assert.Equal(t, CategoryNewOrder, items[3].Category)
	assert.Equal(t, "New Order Received", items[3].Title)
}

func TestCapacityEvictsOldest(t *testing.T) {
	c := NewCenter(5, nil)

	for i := 1; i <= 8; i++ {
		c.HandleEvent(orderCreated(fmt.Sprintf("ORD-%03d", i)))
	}

	items := c.List()
	require.Len(t, items, 5)
	assert.Equal(t, "Order #ORD-008 from Ayu", items[0].Message)
	assert.Equal(t, "Order #ORD-004 from Ayu", items[4].Message)
	// Evicted unread entries no longer count.
	assert.Equal(t, 5, c.UnreadCount())
}

func TestEvictionOfReadEntryKeepsCounter(t *testing.T) {
	c := NewCenter(3, nil)

	c.HandleEvent(orderCreated("ORD-001"))
	c.HandleEvent(orderCreated("ORD-002"))
	c.HandleEvent(orderCreated("ORD-003"))

	items := c.List()
	oldest := items[2]
	c.MarkRead(oldest.ID)
	assert.Equal(t, 2, c.UnreadCount())

	// ORD-001 is read and about to fall off; its eviction must not touch
	// the unread counter.
	c.HandleEvent(orderCreated("ORD-004"))
	assert.Equal(t, 3, c.UnreadCount())
	assert.Len(t, c.List(), 3)
}

func TestMarkReadIdempotent(t *testing.T) {
	c := NewCenter(10, nil)
	c.HandleEvent(orderCreated("ORD-001"))

	id := c.List()[0].ID
	c.MarkRead(id)
	c.MarkRead(id)
	c.MarkRead("no-such-id")

	assert.Equal(t, 0, c.UnreadCount())
	assert.True(t, c.List()[0].Read)
}

func TestMarkAllRead(t *testing.T) {
	c := NewCenter(10, nil)
	for i := 0; i < 4; i++ {
		c.HandleEvent(orderCreated(fmt.Sprintf("ORD-%03d", i)))
	}

	c.MarkAllRead()
	assert.Equal(t, 0, c.UnreadCount())
	for _, item := range c.List() {
		assert.True(t, item.Read)
	}
}

func TestDismiss(t *testing.T) {
	c := NewCenter(10, nil)
	c.HandleEvent(orderCreated("ORD-001"))
	c.HandleEvent(orderCreated("ORD-002"))

	items := c.List()
	c.Dismiss(items[1].ID)

	remaining := c.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, items[0].ID, remaining[0].ID)
	assert.Equal(t, 1, c.UnreadCount())

	// Dismissing a read entry only shrinks the log.
	c.MarkRead(remaining[0].ID)
	c.Dismiss(remaining[0].ID)
	assert.Empty(t, c.List())
	assert.Equal(t, 0, c.UnreadCount())

	c.Dismiss("no-such-id")
}

func TestAttachReceivesDispatchedEvents(t *testing.T) {
	d := realtime.NewDispatcher(nil)
	c := NewCenter(10, nil)
	c.Attach(d)

	d.OnRawMessage("restaurant.7", "order.created", []byte(`{"order_number":"ORD-042","customer_name":"Ayu"}`))
	d.OnRawMessage("restaurant.7", "notification", []byte(`{"type":"info","message":"hello"}`))

	items := c.List()
	require.Len(t, items, 2)
	assert.Equal(t, CategoryGeneral, items[0].Category)
	assert.Equal(t, CategoryNewOrder, items[1].Category)
	assert.Equal(t, 2, c.UnreadCount())
}
