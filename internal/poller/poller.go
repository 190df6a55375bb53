package poller

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"airwatch/internal/analytics"
	"airwatch/internal/metrics"
	"airwatch/internal/models"
	"airwatch/internal/schema"
)

// Fetcher источник фида
type Fetcher interface {
	Fetch(ctx context.Context) (models.Feed, error)
}

// Publisher получатель готовых снимков (Redis)
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap models.Snapshot) error
}

// Poller цикл обновления: один запрос и один прогон анализа на тик
type Poller struct {
	fetcher   Fetcher
	analyzer  *analytics.Analyzer
	schema    *schema.Schema
	publisher Publisher
	interval  time.Duration
	timeout   time.Duration
	now       func() time.Time

	current atomic.Pointer[models.Snapshot]
}

// Option настройка Poller
type Option func(*Poller)

// WithPublisher публиковать каждый снимок
func WithPublisher(p Publisher) Option {
	return func(pl *Poller) {
		pl.publisher = p
	}
}

// WithClock подменяет часы (для тестов)
func WithClock(now func() time.Time) Option {
	return func(pl *Poller) {
		pl.now = now
	}
}

// New создает Poller. До первого тика Current возвращает снимок "нет данных".
func New(fetcher Fetcher, analyzer *analytics.Analyzer, s *schema.Schema, interval, timeout time.Duration, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		analyzer: analyzer,
		schema:   s,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	initial := analytics.NoDataSnapshot(s, nil)
	p.current.Store(&initial)
	return p
}

// Current последний готовый снимок. Снимок не изменяется после публикации.
func (p *Poller) Current() models.Snapshot {
	return *p.current.Load()
}

// Run опрашивает фид до отмены ctx; первый тик сразу
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick выполняет один цикл и возвращает новый снимок.
// Ошибка запроса дает снимок "нет данных", старые данные не переиспользуются.
func (p *Poller) Tick(ctx context.Context) models.Snapshot {
	cycleID := uuid.NewString()
	fetchedAt := p.now()

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	start := time.Now()
	feed, err := p.fetcher.Fetch(fetchCtx)
	cancel()
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	var snap models.Snapshot
	if err != nil {
		log.Printf("Cycle %s: fetch failed: %v", cycleID, err)
		snap = analytics.NoDataSnapshot(p.schema, err)
	} else {
		snap = p.analyzer.Analyze(feed)
		log.Printf("Cycle %s: %d entries, %d parse errors, %d alerts",
			cycleID, snap.EntryCount, snap.ParseErrors, len(snap.Alerts))
	}
	snap.CycleID = cycleID
	snap.FetchedAt = fetchedAt

	p.current.Store(&snap)
	metrics.RecordSnapshot(snap, fetchedAt)

	if p.publisher != nil {
		if err := p.publisher.PublishSnapshot(ctx, snap); err == nil {
			metrics.RedisOperations.WithLabelValues("publish_snapshot", "success").Inc()
		} else {
			metrics.RedisOperations.WithLabelValues("publish_snapshot", "error").Inc()
			log.Printf("Cycle %s: failed to publish snapshot: %v", cycleID, err)
		}
	}

	return snap
}
