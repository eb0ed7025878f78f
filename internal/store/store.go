// Package store persists batch history and the registry search cache.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-enrich/internal/model"
)

// ErrNotFound is returned when a batch does not exist.
var ErrNotFound = eris.New("store: not found")

// BatchFilter specifies criteria for listing batches.
type BatchFilter struct {
	Status model.BatchStatus `json:"status,omitempty"`
	Limit  int               `json:"limit,omitempty"`
	Offset int               `json:"offset,omitempty"`
}

func (f BatchFilter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

// Store defines persistence for batches, their results and cached searches.
type Store interface {
	// Batches
	CreateBatch(ctx context.Context, source string, total int) (*model.Batch, error)
	FinishBatch(ctx context.Context, batchID string, status model.BatchStatus, stats model.BatchStats, errMsg string) error
	GetBatch(ctx context.Context, batchID string) (*model.Batch, error)
	ListBatches(ctx context.Context, filter BatchFilter) ([]model.Batch, error)

	// Results, keyed by input index within the batch
	SaveResult(ctx context.Context, batchID string, idx int, result model.EnrichmentResult) error
	SaveResults(ctx context.Context, batchID string, results []model.EnrichmentResult) error
	ListResults(ctx context.Context, batchID string) ([]model.EnrichmentResult, error)

	// Search cache. maxAge <= 0 disables expiry.
	GetCachedSearch(ctx context.Context, term string, maxAge time.Duration) ([]byte, bool, error)
	SetCachedSearch(ctx context.Context, term string, payload []byte) error
	DeleteExpiredSearches(ctx context.Context, maxAge time.Duration) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns a migrated store for driver "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite", "":
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// ImportResults records results that were enriched elsewhere, such as a JSON
// export, as one complete batch.
func ImportResults(ctx context.Context, s Store, source string, results []model.EnrichmentResult) (*model.Batch, error) {
	if len(results) == 0 {
		return nil, eris.New("store: nothing to import")
	}
	b, err := s.CreateBatch(ctx, source, len(results))
	if err != nil {
		return nil, err
	}
	stats := model.StatsOf(results)
	if err := s.SaveResults(ctx, b.ID, results); err != nil {
		if ferr := s.FinishBatch(context.WithoutCancel(ctx), b.ID, model.BatchStatusFailed, model.BatchStats{}, err.Error()); ferr != nil {
			return b, eris.Wrap(ferr, "store: import finish")
		}
		b.Status = model.BatchStatusFailed
		return b, eris.Wrap(err, "store: import results")
	}
	if err := s.FinishBatch(ctx, b.ID, model.BatchStatusComplete, stats, ""); err != nil {
		return b, err
	}
	b.Status = model.BatchStatusComplete
	b.Stats = stats
	return b, nil
}

func resultStatusCounts(status model.Status) (succeeded, notFound, failed int) {
	switch status {
	case model.StatusSuccess:
		return 1, 0, 0
	case model.StatusNotFound:
		return 0, 1, 0
	default:
		return 0, 0, 1
	}
}
