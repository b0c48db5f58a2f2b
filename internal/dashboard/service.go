// Package dashboard fetches the stats the admin dashboard page renders.
package dashboard

import (
	"context"
	"net/url"

	"github.com/foodhub-app/foodhub-console/internal/orders"
	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/products"
)

// PopularProduct pairs a product with its order count.
type PopularProduct struct {
	Product     products.Product `json:"product"`
	OrdersCount int              `json:"orders_count"`
}

// Stats is the dashboard summary served by the platform API.
type Stats struct {
	TotalOrders     int              `json:"total_orders"`
	PendingOrders   int              `json:"pending_orders"`
	TotalRevenue    float64          `json:"total_revenue"`
	TodayRevenue    float64          `json:"today_revenue"`
	PopularProducts []PopularProduct `json:"popular_products"`
	RecentOrders    []orders.Order   `json:"recent_orders"`
}

// Service reads dashboard stats.
type Service struct {
	client *api.Client
}

// NewService builds a Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Stats fetches the dashboard summary, optionally scoped to a period.
func (s *Service) Stats(ctx context.Context, period string) (Stats, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	var stats Stats
	if err := s.client.Get(ctx, "/dashboard/stats", q, &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
