package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, pgx.Identifier{"enrich", "batch_results"}, identifier("enrich.batch_results"))
	assert.Equal(t, pgx.Identifier{"batch_results"}, identifier("batch_results"))
}

func TestBulkUpsert_Validation(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{Table: "t"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = BulkUpsert(context.Background(), nil, UpsertConfig{Table: "t"}, [][]any{{1}})
	assert.ErrorContains(t, err, "no columns")

	_, err = BulkUpsert(context.Background(), nil, UpsertConfig{Table: "t", Columns: []string{"a"}}, [][]any{{1}})
	assert.ErrorContains(t, err, "no conflict keys")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock := newMockPool(t)
	cfg := UpsertConfig{
		Table:        "batch_results",
		Columns:      []string{"batch_id", "idx", "result"},
		ConflictKeys: []string{"batch_id", "idx"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_batch_results" \(LIKE "batch_results" INCLUDING DEFAULTS\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_batch_results"}, cfg.Columns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "batch_results" .* ON CONFLICT \("batch_id", "idx"\) DO UPDATE SET "result" = EXCLUDED."result"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, cfg, [][]any{{"b1", 0, "{}"}, {"b1", 1, "{}"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBulkUpsert_MergeFails(t *testing.T) {
	mock := newMockPool(t)
	cfg := UpsertConfig{Table: "t", Columns: []string{"k"}, ConflictKeys: []string{"k"}}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_t"}, cfg.Columns).WillReturnResult(1)
	mock.ExpectExec(`ON CONFLICT \("k"\) DO NOTHING`).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := BulkUpsert(context.Background(), mock, cfg, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge into t")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCols(t *testing.T) {
	cfg := UpsertConfig{Columns: []string{"a", "b", "c"}, ConflictKeys: []string{"a"}}
	assert.Equal(t, []string{"b", "c"}, cfg.updateCols())

	cfg.UpdateCols = []string{"c"}
	assert.Equal(t, []string{"c"}, cfg.updateCols())
}
