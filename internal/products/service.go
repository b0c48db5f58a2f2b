package products

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// ListFilters narrows a product listing.
type ListFilters struct {
	CategoryID int64
	Status     string
	Search     string
	Page       shared.PageRequest
}

func (f ListFilters) query() url.Values {
	q := url.Values{}
	if f.CategoryID > 0 {
		q.Set("category_id", fmt.Sprint(f.CategoryID))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.Query(q)
	return q
}

// Service reads and mutates the product catalog through the platform API.
type Service struct {
	client *api.Client
}

// NewService builds a Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

type productPage struct {
	Data []Product       `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List returns a page of products matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, shared.PageMeta, error) {
	var page productPage
	if err := s.client.Get(ctx, "/products", filters.query(), &page); err != nil {
		return nil, shared.PageMeta{}, err
	}
	return page.Data, page.Meta, nil
}

// Get fetches a single product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	var product Product
	if err := s.client.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// Create adds a catalog item.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := validate(product); err != nil {
		return Product{}, err
	}
	var created Product
	if err := s.client.Post(ctx, "/products", product, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

// Update edits a catalog item.
func (s *Service) Update(ctx context.Context, id int64, product Product) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	if err := validate(product); err != nil {
		return Product{}, err
	}
	var updated Product
	if err := s.client.Put(ctx, fmt.Sprintf("/products/%d", id), product, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

// Delete removes a catalog item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	return s.client.Delete(ctx, fmt.Sprintf("/products/%d", id))
}

func validate(p Product) error {
	fields := map[string][]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = append(fields["name"], "product name is required")
	}
	if p.Price < 0 {
		fields["price"] = append(fields["price"], "price must not be negative")
	}
	if len(fields) > 0 {
		return shared.Validation("invalid product", fields)
	}
	return nil
}
