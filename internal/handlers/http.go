package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"airwatch/internal/metrics"
	"airwatch/internal/models"
)

// SnapshotSource отдает текущий снимок панели
type SnapshotSource interface {
	Current() models.Snapshot
}

// Cache зависимость от Redis для /health и /stats
type Cache interface {
	Ping(ctx context.Context) error
	GetStats() map[string]interface{}
}

// Handler обработчик HTTP запросов
type Handler struct {
	source  SnapshotSource
	cache   Cache
	refresh time.Duration
}

// Option настройка Handler
type Option func(*Handler)

// WithCache подключает проверку Redis
func WithCache(c Cache) Option {
	return func(h *Handler) {
		h.cache = c
	}
}

// NewHandler создает новый обработчик. refresh - период автообновления страницы.
func NewHandler(source SnapshotSource, refresh time.Duration, opts ...Option) *Handler {
	h := &Handler{
		source:  source,
		refresh: refresh,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// statusRecorder запоминает код ответа для метрик
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument считает запросы и их длительность
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	}
}

// GetSnapshot обрабатывает GET /api/snapshot
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.source.Current())
}

// GetAlerts обрабатывает GET /api/alerts
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Current()

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"cycle_id": snap.CycleID,
		"no_data":  snap.NoData,
		"alerts":   snap.Alerts,
	})
}

// GetSeries обрабатывает GET /api/series/{metric}
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	metric, err := models.ParseMetricID(mux.Vars(r)["metric"])
	if err != nil {
		RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidMetric, err.Error(), http.StatusNotFound))
		return
	}

	snap := h.source.Current()
	series, ok := snap.SeriesFor(metric)
	if !ok {
		RespondWithError(w, models.NewAPIError(models.ErrorCodeNoData, "no data for "+metric.String(), http.StatusNotFound))
		return
	}

	RespondWithJSON(w, http.StatusOK, series)
}

// HealthCheck обрабатывает GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Current()

	status := "healthy"
	httpStatus := http.StatusOK
	body := map[string]interface{}{
		"feed":      !snap.NoData,
		"cycle_id":  snap.CycleID,
		"timestamp": time.Now(),
	}

	if snap.NoData {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	// Проверяем Redis
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		redisOK := h.cache.Ping(ctx) == nil
		body["redis"] = redisOK
		if !redisOK {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	body["status"] = status
	RespondWithJSON(w, httpStatus, body)
}

// GetStats обрабатывает GET /stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Current()

	body := map[string]interface{}{
		"pipeline": map[string]interface{}{
			"cycle_id":     snap.CycleID,
			"fetched_at":   snap.FetchedAt,
			"no_data":      snap.NoData,
			"entries":      snap.EntryCount,
			"parse_errors": snap.ParseErrors,
			"alerts":       len(snap.Alerts),
		},
		"timestamp": time.Now(),
	}
	if h.cache != nil {
		body["redis"] = h.cache.GetStats()
	}

	RespondWithJSON(w, http.StatusOK, body)
}
