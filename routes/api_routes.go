package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"bizdash/service"
)

// SetupRoutes registers all dashboard API routes on the router.
// highRiskLimit is the default row count for the high-risk customer table.
func SetupRoutes(router *mux.Router, dashboard *service.DashboardService, highRiskLimit int) {
	router.HandleFunc("/api/charts/{id}", GetChartHandler(dashboard)).Methods("GET")
	router.HandleFunc("/api/kpis", GetKPIsHandler(dashboard)).Methods("GET")
	router.HandleFunc("/api/customers/high-risk", GetHighRiskHandler(dashboard, highRiskLimit)).Methods("GET")
	router.HandleFunc("/api/refresh", RefreshHandler(dashboard)).Methods("POST")
	router.HandleFunc("/api/health", HealthHandler(dashboard)).Methods("GET")
}

// GetChartHandler serves one chart spec by ID
func GetChartHandler(dashboard *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		chart, err := dashboard.Chart(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chart)
	}
}

// GetKPIsHandler serves the headline KPI summary
func GetKPIsHandler(dashboard *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kpis, err := dashboard.KPISummary()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, kpis)
	}
}

// GetHighRiskHandler serves the high-risk customer table. The limit query
// parameter overrides the configured default.
func GetHighRiskHandler(dashboard *service.DashboardService, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}
		rows, err := dashboard.HighRiskCustomers(limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// RefreshHandler triggers a manual dataset refresh
func RefreshHandler(dashboard *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dashboard.Refresh(r.Context(), "manual"); err != nil {
			log.WithError(err).Error("Manual refresh failed")
			writeJSONError(w, http.StatusInternalServerError, "refresh failed")
			return
		}
		snap := dashboard.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"snapshot_id":  snap.ID,
			"generated_at": snap.GeneratedAt,
			"customers":    len(snap.Customers),
			"months":       len(snap.Revenue),
		})
	}
}

// HealthHandler reports service liveness and whether a dataset is loaded
func HealthHandler(dashboard *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"dataset_loaded": dashboard.Snapshot() != nil,
		})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownChart):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoSnapshot):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithError(err).Error("Request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
