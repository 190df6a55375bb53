package analytics

import (
	"github.com/shopspring/decimal"

	"airwatch/internal/models"
)

// averagePlaces знаков после запятой; округление половины от нуля
const averagePlaces = 2

// calculateAverage среднее арифметическое с округлением до 2 знаков.
// Пустой набор это ErrEmptySet, а не 0: ноль выглядел бы как нормальное значение.
func calculateAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, models.ErrEmptySet
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values)))).Round(averagePlaces)
	return mean.InexactFloat64(), nil
}

// WindowAverage среднее метрики по окну; невалидные значения пропускаются
func (a *Analyzer) WindowAverage(window Window, metric models.MetricID) (models.Average, error) {
	if len(window) == 0 {
		return models.Average{}, models.ErrEmptySet
	}

	values := make([]float64, 0, len(window))
	for _, entry := range window {
		r, err := a.normalizer.Normalize(entry, metric)
		if err != nil {
			continue
		}
		values = append(values, r.Value)
	}

	mean, err := calculateAverage(values)
	if err != nil {
		return models.Average{}, err
	}
	return models.Average{Metric: metric, Value: mean, Count: len(values)}, nil
}
