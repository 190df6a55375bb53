package models

import (
	"fmt"
	"strings"
	"time"
)

// MetricID идентификатор измеряемой величины
type MetricID int

const (
	Temperature MetricID = iota
	Humidity
	VOC
	ECO2
	PM25
	AQI
)

// DisplayOrder фиксированный порядок вывода метрик
var DisplayOrder = []MetricID{Temperature, Humidity, VOC, ECO2, PM25, AQI}

var metricNames = map[MetricID]string{
	Temperature: "temperature",
	Humidity:    "humidity",
	VOC:         "voc",
	ECO2:        "eco2",
	PM25:        "pm25",
	AQI:         "aqi",
}

func (m MetricID) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// MarshalText кодирует метрику её именем
func (m MetricID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText разбирает имя метрики
func (m *MetricID) UnmarshalText(text []byte) error {
	id, err := ParseMetricID(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// ParseMetricID находит метрику по имени (без учёта регистра)
func ParseMetricID(name string) (MetricID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range metricNames {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// RawFeedEntry одна запись фида в исходном виде
type RawFeedEntry struct {
	EntryID   int64
	CreatedAt string
	Fields    map[string]any
}

// ChannelField пара ключ/значение из метаданных канала
type ChannelField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ChannelMetadata метаданные канала в исходном порядке ключей
type ChannelMetadata []ChannelField

// Get возвращает значение по ключу
func (c ChannelMetadata) Get(key string) (string, bool) {
	for _, f := range c {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Feed неизменяемый снимок фида за один опрос
type Feed struct {
	Entries []RawFeedEntry
	Channel ChannelMetadata
}

// Reading нормализованное значение одной метрики
type Reading struct {
	Metric     MetricID  `json:"metric"`
	Value      float64   `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
}

// MetricRange допустимый диапазон метрики
type MetricRange struct {
	Metric MetricID `json:"metric"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Unit   string   `json:"unit"`
	Advice string   `json:"advice"`
}

// Status результат сравнения с диапазоном
type Status int

const (
	Normal Status = iota
	Low
	High
)

func (s Status) String() string {
	switch s {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "normal"
	}
}

// MarshalText кодирует статус строкой
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText разбирает статус
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*s = Normal
	case "low":
		*s = Low
	case "high":
		*s = High
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Label подпись статуса для панели
func (s Status) Label() string {
	switch s {
	case Low:
		return "⬇️ Low"
	case High:
		return "⬆️ High"
	default:
		return ""
	}
}

// Classification вердикт для одного значения
type Classification struct {
	Metric        MetricID `json:"metric"`
	Value         float64  `json:"value"`
	Status        Status   `json:"status"`
	SeverityColor string   `json:"severity_color"`
	Advice        string   `json:"advice,omitempty"`
}

// AlertBanner предупреждение для вывода
type AlertBanner struct {
	Metric  MetricID `json:"metric"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Color   string   `json:"color"`
}

// Average среднее значение метрики по окну
type Average struct {
	Metric MetricID `json:"metric"`
	Value  float64  `json:"value"`
	Count  int      `json:"count"`
}

// SeriesPoint точка исторического ряда
type SeriesPoint struct {
	ObservedAt time.Time `json:"observed_at"`
	Value      float64   `json:"value"`
}

// Series исторический ряд одной метрики
type Series struct {
	Metric   MetricID      `json:"metric"`
	FieldKey string        `json:"field_key"`
	Title    string        `json:"title"`
	Unit     string        `json:"unit"`
	Points   []SeriesPoint `json:"points"`
}

// Panel состояние одной метрики на панели
type Panel struct {
	Metric         MetricID        `json:"metric"`
	Label          string          `json:"label"`
	Unit           string          `json:"unit"`
	Reading        *Reading        `json:"reading,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	NoData         bool            `json:"no_data"`
}

// AveragePanel среднее метрики с классификацией
type AveragePanel struct {
	Metric         MetricID        `json:"metric"`
	Label          string          `json:"label"`
	Unit           string          `json:"unit"`
	Average        *Average        `json:"average,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	NoData         bool            `json:"no_data"`
}

// Snapshot результат одного цикла опроса
type Snapshot struct {
	CycleID     string          `json:"cycle_id"`
	FetchedAt   time.Time       `json:"fetched_at"`
	NoData      bool            `json:"no_data"`
	Error       string          `json:"error,omitempty"`
	Fields      ChannelMetadata `json:"fields"`
	Latest      []Panel         `json:"latest"`
	LatestAt    *time.Time      `json:"latest_at,omitempty"`
	Averages    []AveragePanel  `json:"averages"`
	Alerts      []AlertBanner   `json:"alerts"`
	Series      []Series        `json:"series"`
	ParseErrors int             `json:"parse_errors"`
	EntryCount  int             `json:"entry_count"`
}

// LatestCaption подпись времени последнего измерения
func (s *Snapshot) LatestCaption() string {
	if s.LatestAt == nil {
		return ""
	}
	return s.LatestAt.Format("02/01/2006 15:04:05")
}

// SeriesFor ищет ряд метрики
func (s *Snapshot) SeriesFor(metric MetricID) (Series, bool) {
	for _, series := range s.Series {
		if series.Metric == metric {
			return series, true
		}
	}
	return Series{}, false
}
