package analytics

import (
	"fmt"
	"sort"

	"airwatch/internal/models"
)

// DefaultWindowSize число последних записей для среднего "за последний час"
const DefaultWindowSize = 6

// Window записи по возрастанию entry_id, не больше заданного размера
type Window []models.RawFeedEntry

// SelectLatest возвращает запись с максимальным entry_id.
// При равных entry_id побеждает первая во входном порядке.
func SelectLatest(entries []models.RawFeedEntry) (models.RawFeedEntry, error) {
	if len(entries) == 0 {
		return models.RawFeedEntry{}, models.ErrEmptySet
	}

	latest := entries[0]
	for _, e := range entries[1:] {
		if e.EntryID > latest.EntryID {
			latest = e
		}
	}
	return latest, nil
}

// SelectWindow возвращает size записей с наибольшими entry_id по возрастанию.
// Если записей меньше, возвращает все. Входной срез не изменяется.
func SelectWindow(entries []models.RawFeedEntry, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}
	if len(entries) == 0 {
		return nil, models.ErrEmptySet
	}

	sorted := make([]models.RawFeedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryID < sorted[j].EntryID
	})

	if len(sorted) > size {
		sorted = sorted[len(sorted)-size:]
	}
	return Window(sorted), nil
}
