package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers file routes under an organization
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/files", func(r chi.Router) {
		r.Post("/", h.UploadFile)
		r.Get("/", h.ListFiles)
		r.Delete("/{file_id}", h.DeleteFile)
	})
}
