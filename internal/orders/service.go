package orders

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// ListFilters narrows an order listing.
type ListFilters struct {
	Status   Status
	Channel  string
	DateFrom string
	DateTo   string
	Search   string
	Page     shared.PageRequest
}

func (f ListFilters) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Channel != "" {
		q.Set("channel", f.Channel)
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.Query(q)
	return q
}

// Service reads and mutates orders through the platform API.
type Service struct {
	client *api.Client
}

// NewService builds a Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

type orderPage struct {
	Data []Order         `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List returns a page of orders matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, shared.PageMeta, error) {
	var page orderPage
	if err := s.client.Get(ctx, "/orders", filters.query(), &page); err != nil {
		return nil, shared.PageMeta{}, err
	}
	return page.Data, page.Meta, nil
}

// Get fetches a single order.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, errors.New("invalid order ID")
	}
	var order Order
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// UpdateStatus moves an order to the given status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Order, error) {
	if id <= 0 {
		return Order{}, errors.New("invalid order ID")
	}
	if _, ok := statusLabels[status]; !ok {
		return Order{}, shared.Validation("unknown order status", map[string][]string{
			"status": {fmt.Sprintf("unknown status %q", status)},
		})
	}
	var order Order
	body := map[string]Status{"status": status}
	if err := s.client.Patch(ctx, fmt.Sprintf("/orders/%d/status", id), body, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Cancel cancels an order, optionally recording a reason. The status
// precondition is checked server-side too; the local check keeps the UI
// from issuing doomed requests.
func (s *Service) Cancel(ctx context.Context, order Order, reason string) (Order, error) {
	if !order.Status.CanCancel() {
		return Order{}, shared.Validation("order can no longer be cancelled", map[string][]string{
			"status": {fmt.Sprintf("orders in status %q cannot be cancelled", order.Status)},
		})
	}
	var updated Order
	body := map[string]string{"reason": reason}
	if err := s.client.Post(ctx, fmt.Sprintf("/orders/%d/cancel", order.ID), body, &updated); err != nil {
		return Order{}, err
	}
	return updated, nil
}

// AddNote appends an operator note to an order.
func (s *Service) AddNote(ctx context.Context, id int64, note string) (Order, error) {
	if id <= 0 {
		return Order{}, errors.New("invalid order ID")
	}
	var order Order
	if err := s.client.Post(ctx, fmt.Sprintf("/orders/%d/notes", id), map[string]string{"note": note}, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}
