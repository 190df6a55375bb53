package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal общее количество запросов к панели
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration продолжительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// PollCycles циклы опроса по результату (ok, no_data)
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_poll_cycles_total",
			Help: "Total number of feed poll cycles by outcome",
		},
		[]string{"result"},
	)

	// FetchDuration длительность запроса к фиду
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Feed fetch latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// FeedEntries записей в последнем фиде
	FeedEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_entries",
			Help: "Number of entries in the last fetched feed",
		},
	)

	// ParseErrors значения, отброшенные нормализатором
	ParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_parse_errors_total",
			Help: "Total number of feed values rejected by normalization",
		},
	)

	// LatestValue последнее показание
	LatestValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sensor_latest_value",
			Help: "Latest valid reading per metric",
		},
		[]string{"metric"},
	)

	// WindowAverage среднее по окну
	WindowAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sensor_window_average",
			Help: "Trailing window average per metric",
		},
		[]string{"metric"},
	)

	// SensorStatus -1 ниже диапазона, 0 норма, 1 выше
	SensorStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sensor_status",
			Help: "Classification of the latest reading: -1 low, 0 normal, 1 high",
		},
		[]string{"metric"},
	)

	// ActiveAlerts число баннеров в текущем снимке
	ActiveAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_active_alerts",
			Help: "Number of alert banners in the current snapshot",
		},
	)

	// LatestReadingAge возраст последнего измерения
	LatestReadingAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensor_latest_reading_age_seconds",
			Help: "Age of the newest feed entry at poll time",
		},
	)

	// RedisOperations операции с Redis
	RedisOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total number of Redis operations",
		},
		[]string{"operation", "status"},
	)
)
