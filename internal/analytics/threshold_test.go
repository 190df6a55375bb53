package analytics_test

import (
	"math"
	"testing"

	"airwatch/internal/analytics"
	"airwatch/internal/models"
	"airwatch/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestClassifyBounds(t *testing.T) {
	ev := analytics.NewEvaluator(schema.Default().Ranges())

	cases := []struct {
		metric models.MetricID
		value  float64
		status models.Status
	}{
		{models.Temperature, 18, models.Normal},
		{models.Temperature, 30, models.Normal},
		{models.Temperature, 24.5, models.Normal},
		{models.Temperature, math.Nextafter(18, 0), models.Low},
		{models.Temperature, math.Nextafter(30, 100), models.High},
		{models.Humidity, 29.99, models.Low},
		{models.Humidity, 60.01, models.High},
		{models.ECO2, 399, models.Low},
		{models.ECO2, 1000, models.Normal},
		{models.VOC, 501, models.High},
		{models.PM25, 0, models.Normal},
		{models.AQI, 51, models.High},
	}

	for _, tc := range cases {
		c, err := ev.Classify(tc.metric, tc.value)
		require.NoError(t, err)
		require.Equal(t, tc.status, c.Status, "%s=%v", tc.metric, tc.value)
		require.Equal(t, tc.value, c.Value)
	}
}

func TestClassifyProperty(t *testing.T) {
	ranges := map[models.MetricID]models.MetricRange{
		models.Temperature: {Metric: models.Temperature, Min: -5, Max: 5, Advice: "cold or hot"},
	}
	ev := analytics.NewEvaluator(ranges)

	for v := -10.0; v <= 10.0; v += 0.25 {
		c, err := ev.Classify(models.Temperature, v)
		require.NoError(t, err)
		switch {
		case v < -5:
			require.Equal(t, models.Low, c.Status)
		case v > 5:
			require.Equal(t, models.High, c.Status)
		default:
			require.Equal(t, models.Normal, c.Status)
		}
	}
}

func TestClassifySeverityAndAdvice(t *testing.T) {
	ev := analytics.NewEvaluator(schema.Default().Ranges())

	normal, err := ev.Classify(models.Temperature, 22)
	require.NoError(t, err)
	require.Equal(t, analytics.NeutralColor, normal.SeverityColor)
	require.Empty(t, normal.Advice)

	high, err := ev.Classify(models.Temperature, 35)
	require.NoError(t, err)
	require.Equal(t, analytics.AlertColor, high.SeverityColor)
	require.Equal(t, "Temperature outside the ideal range.", high.Advice)

	low, err := ev.Classify(models.Humidity, 10)
	require.NoError(t, err)
	require.Equal(t, analytics.AlertColor, low.SeverityColor)
	require.Equal(t, "Inadequate humidity.", low.Advice)
}

func TestClassifyInvalidMetric(t *testing.T) {
	ev := analytics.NewEvaluator(map[models.MetricID]models.MetricRange{})

	_, err := ev.Classify(models.AQI, 3)
	var invalid *models.InvalidMetricError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.AQI, invalid.Metric)

	require.Panics(t, func() { ev.MustClassify(models.AQI, 3) })
}
