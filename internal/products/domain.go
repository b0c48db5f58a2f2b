// Package products exposes the platform's product catalog endpoints.
package products

import "time"

// Translation is a localized product name/description pair.
type Translation struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog item as served by the platform API.
type Product struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Price        float64       `json:"price"`
	CategoryID   int64         `json:"category_id"`
	RestaurantID int64         `json:"restaurant_id"`
	Image        string        `json:"image,omitempty"`
	Status       string        `json:"status"`
	Translations []Translation `json:"translations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
