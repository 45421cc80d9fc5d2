package search

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers search routes under an organization
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/search", h.Search)
}
