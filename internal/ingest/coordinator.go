// Package ingest drives the ingestion and reclassification pipeline.
package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/scorefree/internal/domain"
	"github.com/jonesrussell/scorefree/internal/logger"
	"github.com/jonesrussell/scorefree/internal/metrics"
)

// ErrNoCategories is returned when an ingestion pass is requested with no
// enabled categories. Nothing is attempted.
var ErrNoCategories = errors.New("no enabled categories")

const (
	defaultConcurrency    = 4
	defaultMaxPerCategory = 5
)

// CatalogFetcher retrieves candidate videos for one category.
type CatalogFetcher interface {
	Search(ctx context.Context, category string, maxResults int) ([]domain.VideoRecord, error)
}

// VideoWriter persists video records. Upsert reports whether a new row was
// stored; a conflict on the dedup key is not an error.
type VideoWriter interface {
	Upsert(ctx context.Context, v *domain.VideoRecord) (bool, error)
}

// TextClassifier produces a spoiler-risk verdict for metadata text.
type TextClassifier interface {
	Analyze(title, description string) domain.ClassificationResult
}

// Coordinator runs one ingestion pass across a set of enabled categories:
// fetch candidates per category, classify inline, upsert by external id.
type Coordinator struct {
	fetcher    CatalogFetcher
	store      VideoWriter
	classifier TextClassifier
	logger     logger.Logger
	metrics    *metrics.Metrics

	concurrency    int
	maxPerCategory int
}

// CoordinatorConfig holds coordinator tuning knobs.
type CoordinatorConfig struct {
	// Concurrency bounds parallel category fetches and parallel writes.
	Concurrency int
	// MaxPerCategory caps candidates fetched per category.
	MaxPerCategory int
}

// NewCoordinator creates an ingestion coordinator.
func NewCoordinator(
	fetcher CatalogFetcher,
	store VideoWriter,
	textClassifier TextClassifier,
	cfg CoordinatorConfig,
	log logger.Logger,
	m *metrics.Metrics,
) *Coordinator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxPerCategory <= 0 {
		cfg.MaxPerCategory = defaultMaxPerCategory
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Coordinator{
		fetcher:        fetcher,
		store:          store,
		classifier:     textClassifier,
		logger:         log,
		metrics:        m,
		concurrency:    cfg.Concurrency,
		maxPerCategory: cfg.MaxPerCategory,
	}
}

type fetchResult struct {
	category string
	videos   []domain.VideoRecord
	err      error
}

type writeResult struct {
	category string
	stored   bool
	err      error
}

// Run executes one ingestion pass. A per-category fetch failure or a
// per-record write failure is recorded in the report and never aborts the
// pass; only an empty category set is fatal. maxResults overrides the
// configured per-category cap when positive.
func (c *Coordinator) Run(ctx context.Context, categories []string, maxResults int) (*domain.IngestionReport, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	if maxResults <= 0 {
		maxResults = c.maxPerCategory
	}

	start := time.Now()
	log := c.logger.With(logger.String("run_id", uuid.NewString()))
	log.Info("ingestion pass starting",
		logger.Strings("categories", categories),
		logger.Int("max_per_category", maxResults),
	)

	report := &domain.IngestionReport{Errors: []domain.CategoryError{}}

	// Phase 1: fetch all categories on a bounded worker pool. Categories are
	// independent; one bad category must not abort the batch.
	fetched := c.fetchAll(ctx, categories, maxResults, log)

	var candidates []domain.VideoRecord
	for _, fr := range fetched {
		if fr.err != nil {
			log.Warn("category fetch failed",
				logger.String("category", fr.category),
				logger.Error(fr.err),
			)
			if c.metrics != nil {
				c.metrics.CatalogErrors.WithLabelValues(fr.category).Inc()
			}
			report.Errors = append(report.Errors, domain.CategoryError{
				Category: fr.category,
				Message:  fr.err.Error(),
			})
			continue
		}
		if c.metrics != nil {
			c.metrics.VideosFound.WithLabelValues(fr.category).Add(float64(len(fr.videos)))
		}
		candidates = append(candidates, fr.videos...)
	}
	report.Found = len(candidates)

	// Phase 2: classify inline and write, settle-all. Every write attempt
	// completes before the pass reports; a faulting write never cancels its
	// siblings.
	for _, wr := range c.writeAll(ctx, candidates) {
		if wr.err != nil {
			log.Warn("video write failed",
				logger.String("category", wr.category),
				logger.Error(wr.err),
			)
			report.Errors = append(report.Errors, domain.CategoryError{
				Category: wr.category,
				Message:  wr.err.Error(),
			})
			continue
		}
		if wr.stored {
			report.Stored++
			if c.metrics != nil {
				c.metrics.VideosStored.WithLabelValues(wr.category).Inc()
			}
		}
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.IngestDuration.Observe(duration.Seconds())
	}

	log.Info("ingestion pass complete",
		logger.Int("found", report.Found),
		logger.Int("stored", report.Stored),
		logger.Int("errors", len(report.Errors)),
		logger.Duration("duration", duration),
	)

	return report, nil
}

// fetchAll runs per-category searches on a worker pool and collects every
// outcome.
func (c *Coordinator) fetchAll(ctx context.Context, categories []string, maxResults int, log logger.Logger) []fetchResult {
	jobs := make(chan string, len(categories))
	results := make(chan fetchResult, len(categories))

	workers := min(c.concurrency, len(categories))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for category := range jobs {
				videos, err := c.fetcher.Search(ctx, category, maxResults)
				results <- fetchResult{category: category, videos: videos, err: err}
			}
		}()
	}

	for _, category := range categories {
		jobs <- category
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]fetchResult, 0, len(categories))
	for fr := range results {
		log.Debug("category fetch settled",
			logger.String("category", fr.category),
			logger.Int("videos", len(fr.videos)),
		)
		collected = append(collected, fr)
	}
	return collected
}

// writeAll classifies and upserts every candidate on a worker pool.
func (c *Coordinator) writeAll(ctx context.Context, candidates []domain.VideoRecord) []writeResult {
	if len(candidates) == 0 {
		return nil
	}

	jobs := make(chan domain.VideoRecord, len(candidates))
	results := make(chan writeResult, len(candidates))

	workers := min(c.concurrency, len(candidates))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for video := range jobs {
				result := c.classifier.Analyze(video.Title, video.Description)
				result.ClassifiedAt = time.Now().UTC()
				video.IsScoreFree = result.IsScoreFree
				video.Classification = &result

				if c.metrics != nil {
					c.metrics.ObserveClassification(result.IsScoreFree)
				}

				stored, err := c.store.Upsert(ctx, &video)
				results <- writeResult{category: video.Category, stored: stored, err: err}
			}
		}()
	}

	for _, video := range candidates {
		jobs <- video
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]writeResult, 0, len(candidates))
	for wr := range results {
		collected = append(collected, wr)
	}
	return collected
}
