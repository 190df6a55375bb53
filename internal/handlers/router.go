package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter регистрирует все маршруты панели
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", instrument("/", h.Dashboard)).Methods(http.MethodGet)

	// API endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", instrument("/api/snapshot", h.GetSnapshot)).Methods(http.MethodGet)
	api.HandleFunc("/alerts", instrument("/api/alerts", h.GetAlerts)).Methods(http.MethodGet)
	api.HandleFunc("/series/{metric}", instrument("/api/series", h.GetSeries)).Methods(http.MethodGet)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/stats", instrument("/stats", h.GetStats)).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/prometheus", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
