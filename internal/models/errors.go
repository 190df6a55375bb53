package models

import (
	"errors"
	"fmt"
)

// ErrEmptySet операции требуется хотя бы одна запись
var ErrEmptySet = errors.New("empty set: at least one entry is required")

// FetchError ошибка получения фида (сеть, таймаут, HTTP статус)
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError некорректное значение или время в записи фида
type ParseError struct {
	EntryID int64
	Field   string
	Input   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %d: parse %s %q: %v", e.EntryID, e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidMetricError для метрики не настроен диапазон.
// Означает ошибку конфигурации, а не входных данных.
type InvalidMetricError struct {
	Metric MetricID
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("no range configured for metric %s", e.Metric)
}
