package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/scorefree/internal/domain"
	"github.com/jonesrussell/scorefree/internal/logger"
	"github.com/jonesrussell/scorefree/internal/metrics"
)

// maxReclassifyBatch bounds one invocation. The job is cooperative and
// re-triggerable, not a daemon; callers loop if there is more backlog.
const maxReclassifyBatch = 50

// PendingStore selects and updates unclassified records.
type PendingStore interface {
	ListPending(ctx context.Context, limit int) ([]*domain.VideoRecord, error)
	UpdateClassification(ctx context.Context, externalID string, isScoreFree bool, result *domain.ClassificationResult) error
}

// Reclassifier sweeps stored-but-unclassified records through the
// classifier. Re-running it on an already-classified record is a no-op
// because selection only sees pending rows.
type Reclassifier struct {
	store       PendingStore
	classifier  TextClassifier
	logger      logger.Logger
	metrics     *metrics.Metrics
	concurrency int
}

// NewReclassifier creates a reclassification job.
func NewReclassifier(store PendingStore, textClassifier TextClassifier, concurrency int, log logger.Logger, m *metrics.Metrics) *Reclassifier {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Reclassifier{
		store:       store,
		classifier:  textClassifier,
		logger:      log,
		metrics:     m,
		concurrency: concurrency,
	}
}

type updateResult struct {
	scoreFree bool
	err       error
}

// Run processes one batch of pending records. Per-record persistence
// failures are counted and reported, never fatal to the batch. Selecting
// the batch can fail, and that error is returned as-is.
func (r *Reclassifier) Run(ctx context.Context, limit int) (*domain.ReclassificationReport, error) {
	if limit <= 0 || limit > maxReclassifyBatch {
		limit = maxReclassifyBatch
	}

	pending, err := r.store.ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	report := &domain.ReclassificationReport{}
	if len(pending) == 0 {
		r.logger.Info("no pending videos to reclassify")
		return report, nil
	}

	r.logger.Info("reclassification batch starting",
		logger.Int("batch_size", len(pending)),
		logger.Int("concurrency", r.concurrency),
	)

	jobs := make(chan *domain.VideoRecord, len(pending))
	results := make(chan updateResult, len(pending))

	workers := min(r.concurrency, len(pending))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for video := range jobs {
				results <- r.process(ctx, video)
			}
		}()
	}

	for _, video := range pending {
		jobs <- video
	}
	close(jobs)

	wg.Wait()
	close(results)

	for ur := range results {
		if ur.err != nil {
			report.Failed++
			continue
		}
		report.Updated++
		if ur.scoreFree {
			report.ScoreFreeCount++
		}
	}

	r.logger.Info("reclassification batch complete",
		logger.Int("updated", report.Updated),
		logger.Int("failed", report.Failed),
		logger.Int("score_free", report.ScoreFreeCount),
	)

	return report, nil
}

// process classifies one record and persists verdict and result together.
func (r *Reclassifier) process(ctx context.Context, video *domain.VideoRecord) updateResult {
	result := r.classifier.Analyze(video.Title, video.Description)
	result.ClassifiedAt = time.Now().UTC()

	if r.metrics != nil {
		r.metrics.ObserveClassification(result.IsScoreFree)
	}

	if err := r.store.UpdateClassification(ctx, video.ExternalID, result.IsScoreFree, &result); err != nil {
		r.logger.Warn("classification update failed",
			logger.String("external_id", video.ExternalID),
			logger.Error(err),
		)
		return updateResult{err: err}
	}

	return updateResult{scoreFree: result.IsScoreFree}
}
