package schema

import (
	"fmt"
	"math"
	"regexp"

	"airwatch/internal/models"
)

// fieldKeyPattern ключ поля канала: "field" + номер, совпадение по всему ключу
var fieldKeyPattern = regexp.MustCompile(`^field[0-9]+$`)

// MetricSpec описание метрики: ключ поля, подписи и допустимый диапазон
type MetricSpec struct {
	Metric   models.MetricID
	FieldKey string
	Name     string
	Label    string
	Range    models.MetricRange
}

// Schema статическая схема канала, не меняется в течение сессии
type Schema struct {
	specs []MetricSpec
	index map[models.MetricID]int
}

// Default схема узла ESP32: field1..field6
func Default() *Schema {
	s, err := New([]MetricSpec{
		{
			Metric: models.Temperature, FieldKey: "field1", Name: "Temperature", Label: "🌡️ Temperature",
			Range: models.MetricRange{Min: 18, Max: 30, Unit: "°C", Advice: "Temperature outside the ideal range."},
		},
		{
			Metric: models.Humidity, FieldKey: "field2", Name: "Humidity", Label: "💧 Humidity",
			Range: models.MetricRange{Min: 30, Max: 60, Unit: "%", Advice: "Inadequate humidity."},
		},
		{
			Metric: models.VOC, FieldKey: "field3", Name: "VOCs", Label: "🧪 VOC",
			Range: models.MetricRange{Min: 0, Max: 500, Unit: "ppm", Advice: "High concentration of VOCs."},
		},
		{
			Metric: models.ECO2, FieldKey: "field4", Name: "eCO2", Label: "🟢 eCO₂",
			Range: models.MetricRange{Min: 400, Max: 1000, Unit: "ppm", Advice: "Elevated CO₂."},
		},
		{
			Metric: models.PM25, FieldKey: "field5", Name: "PM2.5", Label: "🌫️ PM2.5",
			Range: models.MetricRange{Min: 0, Max: 35, Unit: "µg/m³", Advice: "Elevated fine particles."},
		},
		{
			Metric: models.AQI, FieldKey: "field6", Name: "AQI", Label: "🏭 AQI",
			Range: models.MetricRange{Min: 0, Max: 50, Unit: "", Advice: "Poor air quality."},
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// New проверяет и собирает схему
func New(specs []MetricSpec) (*Schema, error) {
	s := &Schema{
		specs: make([]MetricSpec, 0, len(specs)),
		index: make(map[models.MetricID]int, len(specs)),
	}
	keys := make(map[string]models.MetricID, len(specs))

	for _, spec := range specs {
		if _, dup := s.index[spec.Metric]; dup {
			return nil, fmt.Errorf("metric %s declared twice", spec.Metric)
		}
		if !fieldKeyPattern.MatchString(spec.FieldKey) {
			return nil, fmt.Errorf("metric %s: invalid field key %q", spec.Metric, spec.FieldKey)
		}
		if other, dup := keys[spec.FieldKey]; dup {
			return nil, fmt.Errorf("field key %s bound to both %s and %s", spec.FieldKey, other, spec.Metric)
		}
		r := spec.Range
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
			return nil, fmt.Errorf("metric %s: range bounds must be finite", spec.Metric)
		}
		if r.Min > r.Max {
			return nil, fmt.Errorf("metric %s: min %.2f greater than max %.2f", spec.Metric, r.Min, r.Max)
		}

		spec.Range.Metric = spec.Metric
		keys[spec.FieldKey] = spec.Metric
		s.index[spec.Metric] = len(s.specs)
		s.specs = append(s.specs, spec)
	}

	for _, m := range models.DisplayOrder {
		if _, ok := s.index[m]; !ok {
			return nil, fmt.Errorf("metric %s has no field binding", m)
		}
	}

	return s, nil
}

// Lookup возвращает описание метрики
func (s *Schema) Lookup(metric models.MetricID) (MetricSpec, bool) {
	i, ok := s.index[metric]
	if !ok {
		return MetricSpec{}, false
	}
	return s.specs[i], true
}

// FieldKey ключ поля фида для метрики
func (s *Schema) FieldKey(metric models.MetricID) string {
	spec, _ := s.Lookup(metric)
	return spec.FieldKey
}

// Ranges таблица диапазонов для оценщика порогов
func (s *Schema) Ranges() map[models.MetricID]models.MetricRange {
	ranges := make(map[models.MetricID]models.MetricRange, len(s.specs))
	for _, spec := range s.specs {
		ranges[spec.Metric] = spec.Range
	}
	return ranges
}

// Specs описания метрик в порядке вывода
func (s *Schema) Specs() []MetricSpec {
	out := make([]MetricSpec, 0, len(s.specs))
	for _, m := range models.DisplayOrder {
		if spec, ok := s.Lookup(m); ok {
			out = append(out, spec)
		}
	}
	return out
}

// Resolve оставляет в метаданных канала только ключи полей, сохраняя порядок
func Resolve(channel models.ChannelMetadata) models.ChannelMetadata {
	fields := models.ChannelMetadata{}
	for _, f := range channel {
		if fieldKeyPattern.MatchString(f.Key) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Title заголовок графика: подпись поля из канала, иначе подпись схемы
func (s *Schema) Title(fields models.ChannelMetadata, metric models.MetricID) string {
	spec, ok := s.Lookup(metric)
	if !ok {
		return metric.String()
	}
	if label, ok := fields.Get(spec.FieldKey); ok && label != "" {
		return label
	}
	return spec.Label
}
