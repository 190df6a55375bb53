package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airwatch/internal/analytics"
	"airwatch/internal/handlers"
	"airwatch/internal/models"
	"airwatch/internal/schema"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	snap models.Snapshot
}

func (s staticSource) Current() models.Snapshot {
	return s.snap
}

type fakeCache struct {
	err error
}

func (c fakeCache) Ping(ctx context.Context) error {
	return c.err
}

func (c fakeCache) GetStats() map[string]interface{} {
	return map[string]interface{}{"total_conns": 1}
}

func liveSnapshot() models.Snapshot {
	a := analytics.NewAnalyzer(schema.Default(), 6, 100)
	snap := a.Analyze(models.Feed{
		Channel: models.ChannelMetadata{{Key: "name", Value: "node"}, {Key: "field1", Value: "Temperatura"}},
		Entries: []models.RawFeedEntry{
			{EntryID: 1, CreatedAt: "2025-03-01T12:00:00Z", Fields: map[string]any{"field1": "35", "field2": "45"}},
			{EntryID: 2, CreatedAt: "2025-03-01T12:01:00Z", Fields: map[string]any{"field1": "36", "field2": "46"}},
		},
	})
	snap.CycleID = "cycle-1"
	return snap
}

func serve(t *testing.T, h *handlers.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handlers.NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestGetSnapshot(t *testing.T) {
	h := handlers.NewHandler(staticSource{liveSnapshot()}, 10*time.Second)

	rec := serve(t, h, "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, "cycle-1", snap.CycleID)
	require.Equal(t, models.Temperature, snap.Latest[0].Metric)
	require.Equal(t, models.High, snap.Latest[0].Classification.Status)
	require.Equal(t, models.ChannelMetadata{{Key: "field1", Value: "Temperatura"}}, snap.Fields)
}

func TestGetAlerts(t *testing.T) {
	h := handlers.NewHandler(staticSource{liveSnapshot()}, 10*time.Second)

	rec := serve(t, h, "/api/alerts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CycleID string               `json:"cycle_id"`
		Alerts  []models.AlertBanner `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Alerts, 1)
	require.Equal(t, models.Temperature, body.Alerts[0].Metric)
	require.Equal(t, "#dc3545", body.Alerts[0].Color)
}

func TestGetSeries(t *testing.T) {
	h := handlers.NewHandler(staticSource{liveSnapshot()}, 10*time.Second)

	rec := serve(t, h, "/api/series/temperature")
	require.Equal(t, http.StatusOK, rec.Code)

	var series models.Series
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	require.Equal(t, "Temperatura", series.Title)
	require.Equal(t, "field1", series.FieldKey)
	require.Len(t, series.Points, 2)

	rec = serve(t, h, "/api/series/pressure")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, models.ErrorCodeInvalidMetric, apiErr.Code)
}

func TestGetSeriesNoData(t *testing.T) {
	h := handlers.NewHandler(staticSource{analytics.NoDataSnapshot(schema.Default(), nil)}, 10*time.Second)

	rec := serve(t, h, "/api/series/humidity")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, models.ErrorCodeNoData, apiErr.Code)
}

func TestHealthCheck(t *testing.T) {
	h := handlers.NewHandler(staticSource{liveSnapshot()}, time.Second, handlers.WithCache(fakeCache{}))
	rec := serve(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	h = handlers.NewHandler(staticSource{liveSnapshot()}, time.Second, handlers.WithCache(fakeCache{err: errors.New("down")}))
	rec = serve(t, h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = handlers.NewHandler(staticSource{analytics.NoDataSnapshot(schema.Default(), nil)}, time.Second)
	rec = serve(t, h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboard(t *testing.T) {
	h := handlers.NewHandler(staticSource{liveSnapshot()}, 10*time.Second)

	rec := serve(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `<meta http-equiv="refresh" content="10">`)
	require.Contains(t, body, "Temperature alert")
	require.Contains(t, body, "01/03/2025 12:01:00")
	require.Contains(t, body, "<polyline")
	require.NotContains(t, body, "No data available.")
}

func TestDashboardNoData(t *testing.T) {
	snap := analytics.NoDataSnapshot(schema.Default(), errors.New("fetch http://feed: unexpected status 500"))
	h := handlers.NewHandler(staticSource{snap}, 10*time.Second)

	rec := serve(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No data available.")
	require.NotContains(t, rec.Body.String(), "<polyline")
}
