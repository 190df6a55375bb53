package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"airwatch/internal/models"
	"airwatch/internal/schema"
)

// TimestampLayout единственный допустимый формат created_at
const TimestampLayout = "2006-01-02T15:04:05Z"

var (
	errEmptyValue   = errors.New("empty value")
	errNotFinite    = errors.New("value is not finite")
	errNotCanonical = errors.New("timestamp does not match " + TimestampLayout)
	errHexNumber    = errors.New("hexadecimal numbers are not accepted")
)

// Normalizer превращает поля сырых записей в типизированные показания
type Normalizer struct {
	schema *schema.Schema
}

// NewNormalizer создает нормализатор для схемы
func NewNormalizer(s *schema.Schema) *Normalizer {
	return &Normalizer{schema: s}
}

// Normalize разбирает значение метрики и время записи.
// Некорректный ввод возвращает *models.ParseError, а не показание.
func (n *Normalizer) Normalize(entry models.RawFeedEntry, metric models.MetricID) (models.Reading, error) {
	spec, ok := n.schema.Lookup(metric)
	if !ok {
		return models.Reading{}, &models.InvalidMetricError{Metric: metric}
	}

	observedAt, err := ParseTimestamp(entry.CreatedAt)
	if err != nil {
		return models.Reading{}, &models.ParseError{
			EntryID: entry.EntryID,
			Field:   "created_at",
			Input:   entry.CreatedAt,
			Err:     err,
		}
	}

	raw, present := entry.Fields[spec.FieldKey]
	value, err := ParseValue(raw)
	if err != nil {
		if !present {
			err = fmt.Errorf("field missing: %w", errEmptyValue)
		}
		return models.Reading{}, &models.ParseError{
			EntryID: entry.EntryID,
			Field:   spec.FieldKey,
			Input:   fmt.Sprint(raw),
			Err:     err,
		}
	}

	return models.Reading{
		Metric:     metric,
		Value:      value,
		ObservedAt: observedAt,
	}, nil
}

// ParseTimestamp строго разбирает YYYY-MM-DDTHH:MM:SSZ в UTC
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	// time.Parse допускает дробные секунды и однозначный час
	if t.Format(TimestampLayout) != s {
		return time.Time{}, errNotCanonical
	}
	return t, nil
}

// FormatTimestamp обратное преобразование для ParseTimestamp
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseValue принимает числовые строки и числа JSON
func ParseValue(raw any) (float64, error) {
	var v float64
	switch x := raw.(type) {
	case nil:
		return 0, errEmptyValue
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, errEmptyValue
		}
		if isHex(s) {
			return 0, errHexNumber
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %w", err)
		}
		v = f
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %w", err)
		}
		v = f
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// isHex шестнадцатеричная запись (0x1p4) не считается числом
func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
