package shared

import (
	"net/url"
	"strconv"
)

// PageMeta mirrors the platform API's pagination envelope.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// PageRequest selects a page for list endpoints.
type PageRequest struct {
	Page    int
	PerPage int
}

// PageFromQuery reads the page selection from request parameters. Absent
// or malformed values fall back to the API's defaults.
func PageFromQuery(q url.Values) PageRequest {
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return PageRequest{Page: page, PerPage: perPage}
}

// Query encodes the page selection as request parameters.
func (p PageRequest) Query(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
}

// HasMore reports whether pages remain after the current one.
func (m PageMeta) HasMore() bool {
	return m.CurrentPage < m.LastPage
}
