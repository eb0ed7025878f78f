package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // register driver

	"github.com/sells-group/company-enrich/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
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
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_results (
	batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	idx      INTEGER NOT NULL,
	status   TEXT NOT NULL,
	result   TEXT NOT NULL,
	PRIMARY KEY (batch_id, idx)
);

CREATE TABLE IF NOT EXISTS search_cache (
	term      TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
CREATE INDEX IF NOT EXISTS idx_search_cache_cached_at ON search_cache(cached_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateBatch(ctx context.Context, source string, total int) (*model.Batch, error) {
	b := &model.Batch{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    model.BatchStatusRunning,
		Total:     total,
		CreatedAt: s.now().UTC(),
	}
	b.UpdatedAt = b.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, source, status, total, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Source, string(b.Status), b.Total, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert batch")
	}
	return b, nil
}

func (s *SQLiteStore) FinishBatch(ctx context.Context, batchID string, status model.BatchStatus, stats model.BatchStats, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET status = ?, completed = ?, succeeded = ?, not_found = ?, failed = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), stats.Completed, stats.Succeeded, stats.NotFound, stats.Failed, errMsg, s.now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish batch %s", batchID)
	}
	return checkRowsAffected(res, batchID)
}

const sqliteBatchColumns = `id, source, status, total, completed, succeeded, not_found, failed, error, created_at, updated_at`

func (s *SQLiteStore) GetBatch(ctx context.Context, batchID string) (*model.Batch, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteBatchColumns+` FROM batches WHERE id = ?`, batchID)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "batch %s", batchID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get batch %s", batchID)
	}
	return b, nil
}

func (s *SQLiteStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.Batch, error) {
	query := `SELECT ` + sqliteBatchColumns + ` FROM batches WHERE 1=1`
	var args []any
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close() //nolint:errcheck

	var batches []model.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

// SaveResult stores one result and bumps the batch counters atomically.
func (s *SQLiteStore) SaveResult(ctx context.Context, batchID string, idx int, result model.EnrichmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batch_results (batch_id, idx, status, result) VALUES (?, ?, ?, ?)`,
		batchID, idx, string(result.Status), string(data),
	); err != nil {
		return eris.Wrapf(err, "sqlite: insert result %s/%d", batchID, idx)
	}

	ok, nf, failed := resultStatusCounts(result.Status)
	res, err := tx.ExecContext(ctx,
		`UPDATE batches SET completed = completed + 1, succeeded = succeeded + ?, not_found = not_found + ?, failed = failed + ?, updated_at = ? WHERE id = ?`,
		ok, nf, failed, s.now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update batch counters %s", batchID)
	}
	if err := checkRowsAffected(res, batchID); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit result")
}

// SaveResults replaces the stored results of a batch with results, indexed
// by position.
func (s *SQLiteStore) SaveResults(ctx context.Context, batchID string, results []model.EnrichmentResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO batch_results (batch_id, idx, status, result) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert result")
	}
	defer stmt.Close() //nolint:errcheck

	for i, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal result")
		}
		if _, err := stmt.ExecContext(ctx, batchID, i, string(r.Status), string(data)); err != nil {
			return eris.Wrapf(err, "sqlite: insert result %s/%d", batchID, i)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit results")
}

func (s *SQLiteStore) ListResults(ctx context.Context, batchID string) ([]model.EnrichmentResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM batch_results WHERE batch_id = ? ORDER BY idx`, batchID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list results %s", batchID)
	}
	defer rows.Close() //nolint:errcheck

	var results []model.EnrichmentResult
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		var r model.EnrichmentResult
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: list results iterate")
}

func (s *SQLiteStore) GetCachedSearch(ctx context.Context, term string, maxAge time.Duration) ([]byte, bool, error) {
	var (
		payload  string
		cachedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM search_cache WHERE term = ?`, term,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get cached search")
	}
	if maxAge > 0 && s.now().Sub(time.Unix(cachedAt, 0)) > maxAge {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

func (s *SQLiteStore) SetCachedSearch(ctx context.Context, term string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_cache (term, payload, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(term) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		term, string(payload), s.now().Unix(),
	)
	return eris.Wrap(err, "sqlite: set cached search")
}

func (s *SQLiteStore) DeleteExpiredSearches(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM search_cache WHERE cached_at < ?`, s.now().Add(-maxAge).Unix())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired searches")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func checkRowsAffected(res sql.Result, batchID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "batch %s", batchID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBatch(row scannable) (*model.Batch, error) {
	var b model.Batch
	err := row.Scan(&b.ID, &b.Source, &b.Status, &b.Total,
		&b.Stats.Completed, &b.Stats.Succeeded, &b.Stats.NotFound, &b.Stats.Failed,
		&b.Error, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
