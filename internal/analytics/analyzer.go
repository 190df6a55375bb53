package analytics

import (
	"errors"
	"log"
	"sort"
	"time"

	"airwatch/internal/models"
	"airwatch/internal/normalize"
	"airwatch/internal/schema"
)

// DefaultHistoryLimit сколько последних записей попадает в исторический ряд
const DefaultHistoryLimit = 100

// Analyzer прогоняет один снимок фида через конвейер:
// resolver -> normalizer -> selector -> evaluator -> aggregator
type Analyzer struct {
	schema       *schema.Schema
	normalizer   *normalize.Normalizer
	evaluator    *Evaluator
	aggregator   *Aggregator
	windowSize   int
	historyLimit int
}

// NewAnalyzer создает анализатор
func NewAnalyzer(s *schema.Schema, windowSize, historyLimit int) *Analyzer {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Analyzer{
		schema:       s,
		normalizer:   normalize.NewNormalizer(s),
		evaluator:    NewEvaluator(s.Ranges()),
		aggregator:   NewAggregator(s),
		windowSize:   windowSize,
		historyLimit: historyLimit,
	}
}

// Analyze строит снимок панели. Feed не изменяется.
// Ошибка разбора исключает только пару (запись, метрика).
func (a *Analyzer) Analyze(feed models.Feed) models.Snapshot {
	snap := models.Snapshot{
		Fields:     schema.Resolve(feed.Channel),
		EntryCount: len(feed.Entries),
		Latest:     make([]models.Panel, 0, len(models.DisplayOrder)),
		Averages:   make([]models.AveragePanel, 0, len(models.DisplayOrder)),
		Series:     make([]models.Series, 0, len(models.DisplayOrder)),
	}

	ordered := sortByEntryID(feed.Entries)
	readings, parseErrs := a.normalizeAll(ordered)
	snap.ParseErrors = len(parseErrs)
	if len(parseErrs) > 0 {
		log.Printf("Skipped %d invalid values, first: %v", len(parseErrs), parseErrs[0])
	}

	if latest, err := SelectLatest(feed.Entries); err == nil {
		if t, err := normalize.ParseTimestamp(latest.CreatedAt); err == nil {
			snap.LatestAt = &t
		}
	}

	window, windowErr := SelectWindow(feed.Entries, a.windowSize)

	avgClassifications := make([]models.Classification, 0, len(models.DisplayOrder))
	for _, spec := range a.schema.Specs() {
		snap.Latest = append(snap.Latest, a.latestPanel(spec, ordered, readings))

		panel := models.AveragePanel{Metric: spec.Metric, Label: spec.Label, Unit: spec.Range.Unit, NoData: true}
		if windowErr == nil {
			if avg, err := a.WindowAverage(window, spec.Metric); err == nil {
				c := a.evaluator.MustClassify(spec.Metric, avg.Value)
				panel.Average = &avg
				panel.Classification = &c
				panel.NoData = false
				avgClassifications = append(avgClassifications, c)
			}
		}
		snap.Averages = append(snap.Averages, panel)

		snap.Series = append(snap.Series, a.series(spec, snap.Fields, readings))
	}

	snap.Alerts = a.aggregator.Aggregate(avgClassifications)
	snap.NoData = len(feed.Entries) == 0
	return snap
}

// latestPanel последнее валидное показание метрики
func (a *Analyzer) latestPanel(spec schema.MetricSpec, ordered []models.RawFeedEntry, readings []map[models.MetricID]models.Reading) models.Panel {
	panel := models.Panel{Metric: spec.Metric, Label: spec.Label, Unit: spec.Range.Unit, NoData: true}

	valid := make([]models.RawFeedEntry, 0, len(ordered))
	byID := make(map[int64]models.Reading, len(ordered))
	for i, entry := range ordered {
		if r, ok := readings[i][spec.Metric]; ok {
			valid = append(valid, entry)
			// при повторе entry_id побеждает первая запись, как в SelectLatest
			if _, seen := byID[entry.EntryID]; !seen {
				byID[entry.EntryID] = r
			}
		}
	}

	latest, err := SelectLatest(valid)
	if errors.Is(err, models.ErrEmptySet) {
		return panel
	}

	r := byID[latest.EntryID]
	c := a.evaluator.MustClassify(spec.Metric, r.Value)
	panel.Reading = &r
	panel.Classification = &c
	panel.NoData = false
	return panel
}

// series исторический ряд; длина ограничена historyLimit последних записей
func (a *Analyzer) series(spec schema.MetricSpec, fields models.ChannelMetadata, readings []map[models.MetricID]models.Reading) models.Series {
	s := models.Series{
		Metric:   spec.Metric,
		FieldKey: spec.FieldKey,
		Title:    a.schema.Title(fields, spec.Metric),
		Unit:     spec.Range.Unit,
		Points:   make([]models.SeriesPoint, 0),
	}

	start := 0
	if len(readings) > a.historyLimit {
		start = len(readings) - a.historyLimit
	}
	for _, row := range readings[start:] {
		if r, ok := row[spec.Metric]; ok {
			s.Points = append(s.Points, models.SeriesPoint{ObservedAt: r.ObservedAt, Value: r.Value})
		}
	}
	return s
}

// normalizeAll нормализует каждую пару (запись, метрика) один раз за цикл
func (a *Analyzer) normalizeAll(entries []models.RawFeedEntry) ([]map[models.MetricID]models.Reading, []error) {
	readings := make([]map[models.MetricID]models.Reading, len(entries))
	var errs []error

	for i, entry := range entries {
		row := make(map[models.MetricID]models.Reading, len(models.DisplayOrder))
		for _, spec := range a.schema.Specs() {
			r, err := a.normalizer.Normalize(entry, spec.Metric)
			if err != nil {
				var invalid *models.InvalidMetricError
				if errors.As(err, &invalid) {
					panic(err)
				}
				errs = append(errs, err)
				continue
			}
			row[spec.Metric] = r
		}
		readings[i] = row
	}
	return readings, errs
}

func sortByEntryID(entries []models.RawFeedEntry) []models.RawFeedEntry {
	sorted := make([]models.RawFeedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryID < sorted[j].EntryID
	})
	return sorted
}

// NoDataSnapshot снимок для цикла, в котором фид получить не удалось
func NoDataSnapshot(s *schema.Schema, cause error) models.Snapshot {
	snap := models.Snapshot{
		NoData:   true,
		Latest:   make([]models.Panel, 0, len(models.DisplayOrder)),
		Averages: make([]models.AveragePanel, 0, len(models.DisplayOrder)),
		Alerts:   make([]models.AlertBanner, 0),
		Series:   make([]models.Series, 0),
	}
	if cause != nil {
		snap.Error = cause.Error()
	}
	for _, spec := range s.Specs() {
		snap.Latest = append(snap.Latest, models.Panel{Metric: spec.Metric, Label: spec.Label, Unit: spec.Range.Unit, NoData: true})
		snap.Averages = append(snap.Averages, models.AveragePanel{Metric: spec.Metric, Label: spec.Label, Unit: spec.Range.Unit, NoData: true})
	}
	return snap
}

// Age сколько прошло с последнего измерения
func Age(snap models.Snapshot, now time.Time) (time.Duration, bool) {
	if snap.LatestAt == nil {
		return 0, false
	}
	return now.Sub(*snap.LatestAt), true
}
