package metrics

import (
	"time"

	"airwatch/internal/analytics"
	"airwatch/internal/models"
)

// RecordSnapshot обновляет метрики по результату цикла опроса
func RecordSnapshot(snap models.Snapshot, now time.Time) {
	if snap.NoData {
		PollCycles.WithLabelValues("no_data").Inc()
	} else {
		PollCycles.WithLabelValues("ok").Inc()
	}

	FeedEntries.Set(float64(snap.EntryCount))
	ParseErrors.Add(float64(snap.ParseErrors))
	ActiveAlerts.Set(float64(len(snap.Alerts)))

	if age, ok := analytics.Age(snap, now); ok {
		LatestReadingAge.Set(age.Seconds())
	}

	for _, p := range snap.Latest {
		metric := p.Metric.String()
		if p.NoData {
			LatestValue.DeleteLabelValues(metric)
			SensorStatus.DeleteLabelValues(metric)
			continue
		}
		LatestValue.WithLabelValues(metric).Set(p.Reading.Value)
		SensorStatus.WithLabelValues(metric).Set(statusValue(p.Classification.Status))
	}

	for _, p := range snap.Averages {
		metric := p.Metric.String()
		if p.NoData {
			WindowAverage.DeleteLabelValues(metric)
			continue
		}
		WindowAverage.WithLabelValues(metric).Set(p.Average.Value)
	}
}

func statusValue(s models.Status) float64 {
	switch s {
	case models.Low:
		return -1
	case models.High:
		return 1
	default:
		return 0
	}
}
