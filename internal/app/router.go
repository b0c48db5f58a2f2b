package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/foodhub-app/foodhub-console/internal/dashboard"
	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/notifications"
	"github.com/foodhub-app/foodhub-console/internal/observability"
	"github.com/foodhub-app/foodhub-console/internal/orders"
	"github.com/foodhub-app/foodhub-console/internal/products"
	"github.com/foodhub-app/foodhub-console/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	SessionHandler       *identity.Handler
	NotificationsHandler *notifications.Handler
	OrdersHandler        *orders.Handler
	ProductsHandler      *products.Handler
	UsersHandler         *users.Handler
	DashboardHandler     *dashboard.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router serving the admin SPA's local API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)
	r.Use(params.Metrics.Middleware)

	r.Handle("/metrics", params.Metrics.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.With(LoginRateLimit()).Post("/", params.SessionHandler.Login)
			r.Get("/", params.SessionHandler.Show)
			r.Delete("/", params.SessionHandler.Logout)
			r.Post("/refresh", params.SessionHandler.Refresh)
			r.Put("/profile", params.SessionHandler.UpdateProfile)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", params.NotificationsHandler.List)
			r.Post("/read-all", params.NotificationsHandler.MarkAllRead)
			r.Post("/{id}/read", params.NotificationsHandler.MarkRead)
			r.Delete("/{id}", params.NotificationsHandler.Dismiss)
		})

		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	})

	return r
}
