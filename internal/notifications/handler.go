package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
)

// ConnectivityFunc reports whether the event transport is live.
type ConnectivityFunc func() bool

// Handler exposes the notification center over the local HTTP surface.
type Handler struct {
	center    *Center
	connected ConnectivityFunc
}

// NewHandler builds a Handler. connected may be nil when no transport is
// wired (the indicator then reads disconnected).
func NewHandler(center *Center, connected ConnectivityFunc) *Handler {
	if connected == nil {
		connected = func() bool { return false }
	}
	return &Handler{center: center, connected: connected}
}

type listResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Connected     bool           `json:"connected"`
}

// List handles GET /api/notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, listResponse{
		Notifications: h.center.List(),
		UnreadCount:   h.center.UnreadCount(),
		Connected:     h.connected(),
	})
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkRead(chi.URLParam(r, "id"))
	httpx.JSON(w, http.StatusOK, map[string]int{"unread_count": h.center.UnreadCount()})
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.center.MarkAllRead()
	httpx.JSON(w, http.StatusOK, map[string]int{"unread_count": 0})
}

// Dismiss handles DELETE /api/notifications/{id}.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.center.Dismiss(chi.URLParam(r, "id"))
	httpx.JSON(w, http.StatusOK, map[string]int{"unread_count": h.center.UnreadCount()})
}
