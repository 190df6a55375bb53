package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"airwatch/internal/models"
	"airwatch/internal/schema"
)

// Aggregator строит баннеры предупреждений из классификаций
type Aggregator struct {
	schema *schema.Schema
}

// NewAggregator создает агрегатор
func NewAggregator(s *schema.Schema) *Aggregator {
	return &Aggregator{schema: s}
}

// Aggregate один баннер на каждую классификацию вне диапазона, порядок входа сохраняется.
// Между вызовами ничего не накапливается.
func (g *Aggregator) Aggregate(classifications []models.Classification) []models.AlertBanner {
	banners := make([]models.AlertBanner, 0)
	for _, c := range classifications {
		if c.Status == models.Normal {
			continue
		}
		banners = append(banners, g.banner(c))
	}
	return banners
}

func (g *Aggregator) banner(c models.Classification) models.AlertBanner {
	name := c.Metric.String()
	var unit string
	var lo, hi float64
	if spec, ok := g.schema.Lookup(c.Metric); ok {
		name = spec.Name
		unit = spec.Range.Unit
		lo, hi = spec.Range.Min, spec.Range.Max
	}

	msg := fmt.Sprintf("%s outside the recommended range over the last hour: %s (expected %s–%s)",
		name, withUnit(c.Value, unit), formatNumber(lo), withUnit(hi, unit))
	if c.Advice != "" {
		msg = c.Advice + " " + msg
	}

	return models.AlertBanner{
		Metric:  c.Metric,
		Title:   name + " alert",
		Message: msg,
		Color:   c.SeverityColor,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func withUnit(v float64, unit string) string {
	return strings.TrimSpace(formatNumber(v) + " " + unit)
}
