package api

import (
	"net/http"
	"time"

	"github.com/futig/docsearch-backend/internal/api/docs"
	documentapi "github.com/futig/docsearch-backend/internal/api/document"
	evaluationapi "github.com/futig/docsearch-backend/internal/api/evaluation"
	"github.com/futig/docsearch-backend/internal/api/middleware"
	searchapi "github.com/futig/docsearch-backend/internal/api/search"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted under /organizations/{org_id}.
type Handlers struct {
	Search     *searchapi.Handler
	Document   *documentapi.Handler
	Evaluation *evaluationapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(middleware.CORS())                        // Handle CORS
	r.Use(chimiddleware.Timeout(120 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger documentation endpoints
	docs.Mount(r, "/docs")

	r.Route("/organizations/{org_id}", func(r chi.Router) {
		searchapi.RegisterRoutes(r, h.Search)
		documentapi.RegisterRoutes(r, h.Document)
		evaluationapi.RegisterRoutes(r, h.Evaluation)
	})

	return r
}
