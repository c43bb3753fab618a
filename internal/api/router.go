package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the dashboard API router. allowedOrigins feeds the
// CORS policy; the dashboard frontend is a browser client on another
// origin during development.
func NewRouter(h *Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", h.Health)

	r.Route("/api/parts", func(r chi.Router) {
		r.Get("/orders", h.ListOrders)
		r.Get("/summary", h.GetSummary)
		r.Get("/vendors", h.GetVendorPerformance)
		r.Get("/issues", h.GetDeliveryIssues)
		r.Get("/weekly", h.GetWeeklyAnalysis)
		r.Get("/cycle-time", h.GetCycleTimeAnalysis)
		r.Get("/daily", h.GetDailyAnalysis)
		r.Post("/refresh", h.RefreshCache)
	})

	return r
}
