package realtime

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/foodhub-app/foodhub-console/internal/orders"
)

// Handler consumes canonical events of one kind.
type Handler func(Event)

// Subscription identifies one handler registration so it can be removed
// later. The zero value matches nothing.
type Subscription struct {
	kind Kind
	id   uint64
}

// decoder turns a raw wire payload into a canonical event.
type decoder func(payload []byte) (Event, error)

// Channel patterns for mapping-table bindings. A pattern ending in ".*"
// matches any channel with that prefix, so one binding covers every
// per-restaurant channel.
const (
	channelOrders      = "orders"
	channelRestaurants = "restaurant.*"
)

type mapping struct {
	dec      decoder
	channels []string
}

type registration struct {
	id uint64
	fn Handler
}

// Dispatcher maps inbound wire messages onto canonical events and fans
// them out to registered handlers.
//
// The wire event names are mapping-table entries, not invariants: the
// upstream contract has changed names between releases, so the table
// carries the current scheme plus the aliases older publishers still use.
// Unrecognized names, events on channels outside their binding, and
// undecodable payloads are logged and dropped; a channel may legitimately
// carry event types this console predates.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.Mutex
	nextID   uint64
	handlers map[Kind][]registration
	mappings map[string]mapping
}

// NewDispatcher builds a Dispatcher with the default wire mappings.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		logger:   logger,
		handlers: make(map[Kind][]registration),
		mappings: make(map[string]mapping),
	}
	d.Map("order.created", decodeOrderCreated, channelOrders, channelRestaurants)
	d.Map("new_order", decodeOrderCreated, channelOrders, channelRestaurants)
	d.Map("order.status.changed", decodeOrderStatusChanged, channelOrders, channelRestaurants)
	d.Map("order_status_changed", decodeOrderStatusChanged, channelOrders, channelRestaurants)
	d.Map("kitchen_update", decodeKitchenUpdate, channelRestaurants)
	d.Map("notification", decodeSystemNotification, channelOrders, channelRestaurants)
	return d
}

// Map binds a wire event name to a decoder on the given channel patterns,
// replacing any previous binding for that name. With no patterns the
// binding accepts the event from any channel.
func (d *Dispatcher) Map(eventName string, dec decoder, channels ...string) {
	d.mu.Lock()
	d.mappings[eventName] = mapping{dec: dec, channels: channels}
	d.mu.Unlock()
}

// Register appends a handler for the given kind. Handlers run in
// registration order. The returned Subscription removes exactly this
// registration when passed to Unregister.
func (d *Dispatcher) Register(kind Kind, h Handler) Subscription {
	if h == nil {
		return Subscription{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.handlers[kind] = append(d.handlers[kind], registration{id: d.nextID, fn: h})
	return Subscription{kind: kind, id: d.nextID}
}

// Unregister removes the registration identified by sub. No-op when the
// subscription is zero or already removed.
func (d *Dispatcher) Unregister(sub Subscription) {
	if sub.id == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	regs := d.handlers[sub.kind]
	for i, reg := range regs {
		if reg.id == sub.id {
			d.handlers[sub.kind] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// OnRawMessage normalizes one inbound wire message and dispatches the
// resulting canonical event. Handlers are invoked synchronously in
// registration order; a panicking handler is recovered and logged so the
// remaining handlers still observe the event.
func (d *Dispatcher) OnRawMessage(channel, eventName string, payload []byte) {
	d.mu.Lock()
	m, ok := d.mappings[eventName]
	d.mu.Unlock()
	if !ok {
		d.logger.Debug("dropping unknown event",
			slog.String("channel", channel),
			slog.String("event", eventName))
		return
	}
	if !m.accepts(channel) {
		d.logger.Debug("dropping event on unbound channel",
			slog.String("channel", channel),
			slog.String("event", eventName))
		return
	}

	event, err := m.dec(payload)
	if err != nil {
		d.logger.Warn("dropping undecodable event",
			slog.String("channel", channel),
			slog.String("event", eventName),
			slog.Any("error", err))
		return
	}

	d.mu.Lock()
	regs := make([]registration, len(d.handlers[event.EventKind()]))
	copy(regs, d.handlers[event.EventKind()])
	d.mu.Unlock()

	for _, reg := range regs {
		d.invoke(reg.fn, event)
	}
}

func (m mapping) accepts(channel string) bool {
	if len(m.channels) == 0 {
		return true
	}
	for _, pattern := range m.channels {
		if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
			if strings.HasPrefix(channel, prefix+".") {
				return true
			}
			continue
		}
		if channel == pattern {
			return true
		}
	}
	return false
}

func (d *Dispatcher) invoke(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				slog.String("kind", string(event.EventKind())),
				slog.Any("panic", r))
		}
	}()
	h(event)
}

func decodeOrderCreated(payload []byte) (Event, error) {
	var order orders.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, err
	}
	return OrderCreated{Order: order}, nil
}

type statusChangedWire struct {
	OrderID        int64         `json:"order_id"`
	Status         orders.Status `json:"status"`
	PreviousStatus orders.Status `json:"previous_status"`
	Order          orders.Order  `json:"order"`
}

func decodeOrderStatusChanged(payload []byte) (Event, error) {
	var wire statusChangedWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, err
	}
	return OrderStatusChanged{
		OrderID:        wire.OrderID,
		PreviousStatus: wire.PreviousStatus,
		NewStatus:      wire.Status,
		Order:          wire.Order,
	}, nil
}

type kitchenUpdateWire struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

func decodeKitchenUpdate(payload []byte) (Event, error) {
	var wire kitchenUpdateWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, err
	}
	return KitchenUpdate{OrderID: wire.OrderID, Message: wire.Message}, nil
}

type systemNotificationWire struct {
	Type    Severity `json:"type"`
	Message string   `json:"message"`
}

func decodeSystemNotification(payload []byte) (Event, error) {
	var wire systemNotificationWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, err
	}
	severity := wire.Type
	switch severity {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
	default:
		severity = SeverityInfo
	}
	return SystemNotification{Severity: severity, Message: wire.Message}, nil
}
