package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foodhub-app/foodhub-console/internal/app"
	"github.com/foodhub-app/foodhub-console/internal/dashboard"
	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/notifications"
	"github.com/foodhub-app/foodhub-console/internal/observability"
	"github.com/foodhub-app/foodhub-console/internal/orders"
	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/platform/credstore"
	"github.com/foodhub-app/foodhub-console/internal/products"
	"github.com/foodhub-app/foodhub-console/internal/realtime"
	"github.com/foodhub-app/foodhub-console/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	creds, err := credstore.Connect(ctx, cfg.RedisAddr, cfg.SessionTTL)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := creds.Client().Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// The store owns the bearer token; the API client reads it through the
	// token source on every request.
	var store *identity.Store
	client := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, func() string { return store.Token() }, logger)
	store = identity.NewStore(identity.NewAPIClient(client), creds, logger)

	dispatcher := realtime.NewDispatcher(logger)
	transport := realtime.NewTransport(creds.Client(), dispatcher, realtime.TransportConfig{
		SharedChannel: cfg.EventSharedChannel,
		TenantPrefix:  cfg.EventTenantPrefix,
	}, logger)
	transport.OnStatus(func(status realtime.Status, err error) {
		if err != nil {
			logger.Warn("transport status", slog.String("status", string(status)), slog.Any("error", err))
			return
		}
		logger.Info("transport status", slog.String("status", string(status)))
	})
	realtime.BindSession(ctx, store, transport, logger)

	center := notifications.NewCenter(cfg.NotificationCapacity, logger)
	center.Attach(dispatcher)

	metrics := observability.NewMetrics()
	metrics.Attach(dispatcher)

	// Resume a persisted session optimistically, then verify the
	// credential in the background. A rejected credential logs out; any
	// other failure keeps the cached identity.
	if restored, err := store.Restore(ctx); err != nil {
		logger.Warn("restore session", slog.Any("error", err))
	} else if restored {
		go func() {
			refreshCtx, cancel := context.WithTimeout(ctx, cfg.APITimeout)
			defer cancel()
			if _, err := store.Refresh(refreshCtx); err != nil {
				logger.Warn("background refresh", slog.Any("error", err))
			}
		}()
	}

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionHandler:       identity.NewHandler(store, logger),
		NotificationsHandler: notifications.NewHandler(center, transport.Connected),
		OrdersHandler:        orders.NewHandler(orders.NewService(client), logger),
		ProductsHandler:      products.NewHandler(products.NewService(client), logger),
		UsersHandler:         users.NewHandler(users.NewService(client, store), logger),
		DashboardHandler:     dashboard.NewHandler(dashboard.NewService(client)),
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
		}
		_ = transport.Disconnect()
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("console exited", slog.Any("error", err))
		os.Exit(1)
	}
}
