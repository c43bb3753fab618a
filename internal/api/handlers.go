package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"opsboard/internal/query"
)

// Handlers exposes the query service over HTTP for the dashboard.
type Handlers struct {
	svc *query.Service
}

// NewHandlers wires the query service into the HTTP surface.
func NewHandlers(svc *query.Service) *Handlers {
	return &Handlers{svc: svc}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Response encode failed")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// ListOrders handles GET /api/parts/orders.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := query.OrderFilters{
		Status:       q.Get("status"),
		Vendor:       q.Get("vendor"),
		Appliance:    q.Get("appliance"),
		Brand:        q.Get("brand"),
		PlanningArea: q.Get("planning_area"),
		OverdueOnly:  q.Get("overdue") == "true",
	}

	page := h.svc.ListOrders(filters, queryInt(r, "offset", 0), queryInt(r, "limit", 50))
	writeJSON(w, r, http.StatusOK, page)
}

// GetSummary handles GET /api/parts/summary.
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetSummary())
}

// GetVendorPerformance handles GET /api/parts/vendors.
func (h *Handlers) GetVendorPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := query.OrderFilters{
		Vendor:    q.Get("vendor"),
		Appliance: q.Get("appliance"),
		Brand:     q.Get("brand"),
	}

	report := h.svc.GetVendorPerformance(filters, q.Get("sort_by"), q.Get("sort_order"))
	writeJSON(w, r, http.StatusOK, report)
}

// GetDeliveryIssues handles GET /api/parts/issues.
func (h *Handlers) GetDeliveryIssues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetDeliveryIssues())
}

// GetWeeklyAnalysis handles GET /api/parts/weekly.
func (h *Handlers) GetWeeklyAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetWeeklyAnalysis(queryInt(r, "weeks", 0)))
}

// GetCycleTimeAnalysis handles GET /api/parts/cycle-time.
func (h *Handlers) GetCycleTimeAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetCycleTimeAnalysis())
}

// GetDailyAnalysis handles GET /api/parts/daily.
func (h *Handlers) GetDailyAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetDailyAnalysis(queryInt(r, "days", 0)))
}

// RefreshCache handles POST /api/parts/refresh.
func (h *Handlers) RefreshCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.RefreshCache())
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
