package evaluation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers evaluation and grading routes under an organization
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Post("/queries", h.GenerateQueries)
		r.Post("/runs", h.RunTests)
	})
	r.Post("/grades", h.SaveGrade)
}
