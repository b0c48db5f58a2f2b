package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// Status is a transport connectivity state, surfaced to the UI as a
// connectivity indicator. Connectivity changes never become canonical
// events.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// StatusListener observes connectivity changes. err is non-nil only for
// StatusError.
type StatusListener func(status Status, err error)

// RawSink receives inbound wire messages in arrival order.
type RawSink interface {
	OnRawMessage(channel, eventName string, payload []byte)
}

// TransportConfig names the channels the transport listens on.
type TransportConfig struct {
	// SharedChannel carries platform-wide order traffic. Default "orders".
	SharedChannel string
	// TenantPrefix scopes per-restaurant channels. Default "restaurant.".
	TenantPrefix string
}

// Transport owns the single pub/sub connection of an authenticated
// session. It listens on the shared channel plus one channel per
// subscribed tenant and pumps every message, in order, into the sink.
//
// Reconnection is explicit: Reconnect is Disconnect followed by Connect.
// There is no automatic retry; a production deployment wants exponential
// backoff with jitter and a retry ceiling layered on top.
type Transport struct {
	client *redis.Client
	sink   RawSink
	logger *slog.Logger

	sharedChannel string
	tenantPrefix  string

	mu        sync.Mutex
	pubsub    *redis.PubSub
	tenants   map[int64]struct{}
	listeners []StatusListener
	done      chan struct{}
}

// NewTransport builds a Transport over an existing Redis client.
func NewTransport(client *redis.Client, sink RawSink, cfg TransportConfig, logger *slog.Logger) *Transport {
	if cfg.SharedChannel == "" {
		cfg.SharedChannel = "orders"
	}
	if cfg.TenantPrefix == "" {
		cfg.TenantPrefix = "restaurant."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		client:        client,
		sink:          sink,
		logger:        logger,
		sharedChannel: cfg.SharedChannel,
		tenantPrefix:  cfg.TenantPrefix,
		tenants:       make(map[int64]struct{}),
	}
}

// OnStatus registers a connectivity listener.
func (t *Transport) OnStatus(fn StatusListener) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Connected reports whether the transport is live.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pubsub != nil
}

// Connect opens the pub/sub connection and starts the message pump.
// No-op when already connected. Callers connect only while the session is
// authenticated.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.pubsub != nil {
		t.mu.Unlock()
		return nil
	}
	pubsub := t.client.Subscribe(ctx, t.sharedChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		t.mu.Unlock()
		_ = pubsub.Close()
		wrapped := shared.Wrap(shared.KindTransportError, "subscribe shared channel", err)
		t.notify(StatusError, wrapped)
		return wrapped
	}
	done := make(chan struct{})
	t.pubsub = pubsub
	t.done = done
	t.mu.Unlock()

	go t.pump(pubsub, done)
	t.notify(StatusConnected, nil)
	return nil
}

// Disconnect tears down the connection and drops every tenant
// subscription. Idempotent.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	pubsub := t.pubsub
	done := t.done
	t.pubsub = nil
	t.done = nil
	t.tenants = make(map[int64]struct{})
	t.mu.Unlock()

	if pubsub == nil {
		return nil
	}
	if err := pubsub.Close(); err != nil {
		t.logger.Warn("close pubsub", slog.Any("error", err))
	}
	<-done
	return nil
}

// Reconnect tears the connection down and opens it again.
func (t *Transport) Reconnect(ctx context.Context) error {
	if err := t.Disconnect(); err != nil {
		return err
	}
	return t.Connect(ctx)
}

// SubscribeTenant starts listening for events scoped to the tenant. At
// most one live subscription per tenant; re-subscribing is a no-op.
func (t *Transport) SubscribeTenant(ctx context.Context, tenantID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pubsub == nil {
		return shared.E(shared.KindTransportError, "not connected")
	}
	if _, ok := t.tenants[tenantID]; ok {
		return nil
	}
	channel := t.tenantChannel(tenantID)
	if err := t.pubsub.Subscribe(ctx, channel); err != nil {
		return shared.Wrap(shared.KindTransportError, "subscribe "+channel, err)
	}
	t.tenants[tenantID] = struct{}{}
	t.logger.Info("joined tenant channel", slog.String("channel", channel))
	return nil
}

// UnsubscribeTenant stops listening for the tenant. No-op when not
// subscribed.
func (t *Transport) UnsubscribeTenant(ctx context.Context, tenantID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pubsub == nil {
		return nil
	}
	if _, ok := t.tenants[tenantID]; !ok {
		return nil
	}
	channel := t.tenantChannel(tenantID)
	if err := t.pubsub.Unsubscribe(ctx, channel); err != nil {
		return shared.Wrap(shared.KindTransportError, "unsubscribe "+channel, err)
	}
	delete(t.tenants, tenantID)
	t.logger.Info("left tenant channel", slog.String("channel", channel))
	return nil
}

func (t *Transport) tenantChannel(tenantID int64) string {
	return fmt.Sprintf("%s%d", t.tenantPrefix, tenantID)
}

// wireMessage is the envelope published on every channel.
type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// pump forwards inbound messages to the sink in arrival order. It exits
// when the pub/sub connection closes and announces the disconnect.
func (t *Transport) pump(pubsub *redis.PubSub, done chan struct{}) {
	defer close(done)
	for msg := range pubsub.Channel() {
		var wire wireMessage
		if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil || wire.Event == "" {
			t.logger.Warn("dropping malformed wire message", slog.String("channel", msg.Channel))
			continue
		}
		t.sink.OnRawMessage(msg.Channel, wire.Event, wire.Data)
	}
	t.notify(StatusDisconnected, nil)
}

func (t *Transport) notify(status Status, err error) {
	t.mu.Lock()
	listeners := make([]StatusListener, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(status, err)
	}
}
