package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-enrich/internal/db"
	"github.com/sells-group/company-enrich/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 1
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			pgxCfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			pgxCfg.MinConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batches (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	total      INTEGER NOT NULL DEFAULT 0,
	completed  INTEGER NOT NULL DEFAULT 0,
	succeeded  INTEGER NOT NULL DEFAULT 0,
	not_found  INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS batch_results (
	batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	idx      INTEGER NOT NULL,
	status   TEXT NOT NULL,
	result   JSONB NOT NULL,
	PRIMARY KEY (batch_id, idx)
);

CREATE TABLE IF NOT EXISTS search_cache (
	term      TEXT PRIMARY KEY,
	payload   JSONB NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_search_cache_cached_at ON search_cache(cached_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateBatch(ctx context.Context, source string, total int) (*model.Batch, error) {
	now := time.Now().UTC()
	b := &model.Batch{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    model.BatchStatusRunning,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO batches (id, source, status, total, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Source, string(b.Status), b.Total, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert batch")
	}
	return b, nil
}

func (s *PostgresStore) FinishBatch(ctx context.Context, batchID string, status model.BatchStatus, stats model.BatchStats, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE batches SET status = $1, completed = $2, succeeded = $3, not_found = $4, failed = $5, error = $6, updated_at = $7 WHERE id = $8`,
		string(status), stats.Completed, stats.Succeeded, stats.NotFound, stats.Failed, errMsg, time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish batch %s", batchID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "batch %s", batchID)
	}
	return nil
}

const postgresBatchColumns = `id, source, status, total, completed, succeeded, not_found, failed, error, created_at, updated_at`

func (s *PostgresStore) GetBatch(ctx context.Context, batchID string) (*model.Batch, error) {
	b, err := scanBatch(s.pool.QueryRow(ctx,
		`SELECT `+postgresBatchColumns+` FROM batches WHERE id = $1`, batchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "batch %s", batchID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get batch %s", batchID)
	}
	return b, nil
}

func (s *PostgresStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.Batch, error) {
	query := `SELECT ` + postgresBatchColumns + ` FROM batches WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.limit(), max(filter.Offset, 0))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch")
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "postgres: list batches iterate")
}

// SaveResult stores one result and bumps the batch counters in one
// transaction.
func (s *PostgresStore) SaveResult(ctx context.Context, batchID string, idx int, result model.EnrichmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`INSERT INTO batch_results (batch_id, idx, status, result) VALUES ($1, $2, $3, $4)`,
		batchID, idx, string(result.Status), data,
	); err != nil {
		return eris.Wrapf(err, "postgres: insert result %s/%d", batchID, idx)
	}

	ok, nf, failed := resultStatusCounts(result.Status)
	tag, err := tx.Exec(ctx,
		`UPDATE batches SET completed = completed + 1, succeeded = succeeded + $1, not_found = not_found + $2, failed = failed + $3, updated_at = $4 WHERE id = $5`,
		ok, nf, failed, time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update batch counters %s", batchID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "batch %s", batchID)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit result")
}

// SaveResults bulk-upserts every result of a batch by position.
func (s *PostgresStore) SaveResults(ctx context.Context, batchID string, results []model.EnrichmentResult) error {
	rows := make([][]any, 0, len(results))
	for i, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal result")
		}
		rows = append(rows, []any{batchID, i, string(r.Status), data})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "batch_results",
		Columns:      []string{"batch_id", "idx", "status", "result"},
		ConflictKeys: []string{"batch_id", "idx"},
	}, rows)
	return eris.Wrapf(err, "postgres: save results %s", batchID)
}

func (s *PostgresStore) ListResults(ctx context.Context, batchID string) ([]model.EnrichmentResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT result FROM batch_results WHERE batch_id = $1 ORDER BY idx`, batchID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list results %s", batchID)
	}
	defer rows.Close()

	var results []model.EnrichmentResult
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		var r model.EnrichmentResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: list results iterate")
}

func (s *PostgresStore) GetCachedSearch(ctx context.Context, term string, maxAge time.Duration) ([]byte, bool, error) {
	var (
		payload  []byte
		cachedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT payload, cached_at FROM search_cache WHERE term = $1`, term,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "postgres: get cached search")
	}
	if maxAge > 0 && time.Since(cachedAt) > maxAge {
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *PostgresStore) SetCachedSearch(ctx context.Context, term string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_cache (term, payload, cached_at) VALUES ($1, $2, $3)
		 ON CONFLICT (term) DO UPDATE SET payload = EXCLUDED.payload, cached_at = EXCLUDED.cached_at`,
		term, payload, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: set cached search")
}

func (s *PostgresStore) DeleteExpiredSearches(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM search_cache WHERE cached_at < $1`, time.Now().Add(-maxAge).UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired searches")
	}
	return int(tag.RowsAffected()), nil
}
