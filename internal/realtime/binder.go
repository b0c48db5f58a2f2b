package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/foodhub-app/foodhub-console/internal/identity"
)

// SessionTransport is the slice of Transport the binder drives.
type SessionTransport interface {
	Connect(ctx context.Context) error
	Disconnect() error
	SubscribeTenant(ctx context.Context, tenantID int64) error
	UnsubscribeTenant(ctx context.Context, tenantID int64) error
}

// Binder subscribes to session lifecycle transitions and drives the
// transport: connect and join the tenant channel when the session becomes
// authenticated, leave and disconnect when it ends. The identity store
// stays ignorant of the transport; this is the only coupling point.
type Binder struct {
	ctx       context.Context
	transport SessionTransport
	logger    *slog.Logger

	mu     sync.Mutex
	tenant int64
}

// BindSession wires a Binder between the store and the transport. The
// context bounds the transport calls made from transition listeners.
func BindSession(ctx context.Context, store *identity.Store, transport SessionTransport, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Binder{ctx: ctx, transport: transport, logger: logger}
	store.OnTransition(b.onTransition)
	return b
}

func (b *Binder) onTransition(t identity.Transition) {
	switch t.State {
	case identity.StateAuthenticated:
		if t.User == nil {
			return
		}
		b.becameAuthenticated(*t.User)
	case identity.StateUnauthenticated:
		b.becameUnauthenticated()
	}
}

func (b *Binder) becameAuthenticated(user identity.User) {
	if err := b.transport.Connect(b.ctx); err != nil {
		b.logger.Warn("connect transport", slog.Any("error", err))
		return
	}

	b.mu.Lock()
	previous := b.tenant
	b.tenant = user.RestaurantID
	b.mu.Unlock()

	if previous != 0 && previous != user.RestaurantID {
		if err := b.transport.UnsubscribeTenant(b.ctx, previous); err != nil {
			b.logger.Warn("unsubscribe tenant", slog.Int64("tenant", previous), slog.Any("error", err))
		}
	}
	if user.RestaurantID != 0 && user.RestaurantID != previous {
		if err := b.transport.SubscribeTenant(b.ctx, user.RestaurantID); err != nil {
			b.logger.Warn("subscribe tenant", slog.Int64("tenant", user.RestaurantID), slog.Any("error", err))
		}
	}
}

func (b *Binder) becameUnauthenticated() {
	b.mu.Lock()
	tenant := b.tenant
	b.tenant = 0
	b.mu.Unlock()

	if tenant != 0 {
		if err := b.transport.UnsubscribeTenant(b.ctx, tenant); err != nil {
			b.logger.Warn("unsubscribe tenant", slog.Int64("tenant", tenant), slog.Any("error", err))
		}
	}
	if err := b.transport.Disconnect(); err != nil {
		b.logger.Warn("disconnect transport", slog.Any("error", err))
	}
}
