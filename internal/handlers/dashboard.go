package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"airwatch/internal/models"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	chartWidth  = 320
	chartHeight = 80
)

type dashboardView struct {
	Refresh  int
	NoData   bool
	Error    string
	Caption  string
	Alerts   []models.AlertBanner
	Latest   []panelView
	Averages []panelView
	Charts   []chartView
}

type panelView struct {
	Label  string
	Value  string
	Unit   string
	Status string
	Color  string
	Advice string
	NoData bool
}

type chartView struct {
	Title  string
	Unit   string
	Points string
	Min    string
	Max    string
	Last   string
	Empty  bool
	Width  int
	Height int
}

// Dashboard обрабатывает GET / - HTML панель с автообновлением
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := buildView(h.source.Current(), int(h.refresh.Seconds()))

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		log.Printf("Failed to render dashboard: %v", err)
		RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, "failed to render dashboard", http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func buildView(snap models.Snapshot, refresh int) dashboardView {
	if refresh < 1 {
		refresh = 1
	}
	view := dashboardView{
		Refresh: refresh,
		NoData:  snap.NoData,
		Error:   snap.Error,
		Caption: snap.LatestCaption(),
		Alerts:  snap.Alerts,
	}

	for _, p := range snap.Latest {
		pv := panelView{Label: p.Label, Unit: p.Unit, NoData: p.NoData}
		if !p.NoData {
			pv.Value = formatValue(p.Reading.Value)
			pv.Status = p.Classification.Status.Label()
			pv.Color = p.Classification.SeverityColor
			pv.Advice = p.Classification.Advice
		}
		view.Latest = append(view.Latest, pv)
	}

	for _, p := range snap.Averages {
		pv := panelView{Label: p.Label, Unit: p.Unit, NoData: p.NoData}
		if !p.NoData {
			pv.Value = formatValue(p.Average.Value)
			pv.Status = p.Classification.Status.Label()
			pv.Color = p.Classification.SeverityColor
		}
		view.Averages = append(view.Averages, pv)
	}

	for _, s := range snap.Series {
		view.Charts = append(view.Charts, buildChart(s))
	}
	return view
}

func buildChart(s models.Series) chartView {
	c := chartView{Title: s.Title, Unit: s.Unit, Width: chartWidth, Height: chartHeight}
	if len(s.Points) == 0 {
		c.Empty = true
		return c
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range s.Points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	c.Min = formatValue(lo)
	c.Max = formatValue(hi)
	c.Last = formatValue(s.Points[len(s.Points)-1].Value)
	c.Points = polyline(s.Points, lo, hi)
	return c
}

// polyline координаты точек для <polyline>, ось Y направлена вниз
func polyline(points []models.SeriesPoint, lo, hi float64) string {
	var sb strings.Builder
	n := len(points)
	for i, p := range points {
		x := 0.0
		if n > 1 {
			x = float64(i) * chartWidth / float64(n-1)
		}
		y := chartHeight / 2.0
		if hi > lo {
			y = chartHeight - (p.Value-lo)/(hi-lo)*chartHeight
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	return sb.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
