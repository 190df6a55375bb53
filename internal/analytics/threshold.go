package analytics

import "airwatch/internal/models"

const (
	// AlertColor цвет значения вне диапазона
	AlertColor = "#dc3545"
	// NeutralColor цвет значения в диапазоне
	NeutralColor = "#198754"
)

// Evaluator сравнивает значения со статической таблицей диапазонов
type Evaluator struct {
	ranges map[models.MetricID]models.MetricRange
}

// NewEvaluator создает оценщик. Таблица копируется.
func NewEvaluator(ranges map[models.MetricID]models.MetricRange) *Evaluator {
	own := make(map[models.MetricID]models.MetricRange, len(ranges))
	for m, r := range ranges {
		own[m] = r
	}
	return &Evaluator{ranges: own}
}

// Classify границы включительные: min <= v <= max это Normal
func (e *Evaluator) Classify(metric models.MetricID, value float64) (models.Classification, error) {
	r, ok := e.ranges[metric]
	if !ok {
		return models.Classification{}, &models.InvalidMetricError{Metric: metric}
	}

	c := models.Classification{
		Metric:        metric,
		Value:         value,
		Status:        models.Normal,
		SeverityColor: NeutralColor,
	}

	switch {
	case value < r.Min:
		c.Status = models.Low
	case value > r.Max:
		c.Status = models.High
	}

	if c.Status != models.Normal {
		c.SeverityColor = AlertColor
		c.Advice = r.Advice
	}
	return c, nil
}

// MustClassify как Classify, но паникует на ненастроенной метрике
func (e *Evaluator) MustClassify(metric models.MetricID, value float64) models.Classification {
	c, err := e.Classify(metric, value)
	if err != nil {
		panic(err)
	}
	return c
}
