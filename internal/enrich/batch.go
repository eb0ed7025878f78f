package enrich

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/model"
)

// BatchRecorder persists a batch and its results. store.Store implements it.
type BatchRecorder interface {
	CreateBatch(ctx context.Context, source string, total int) (*model.Batch, error)
	SaveResult(ctx context.Context, batchID string, idx int, result model.EnrichmentResult) error
	FinishBatch(ctx context.Context, batchID string, status model.BatchStatus, stats model.BatchStats, errMsg string) error
}

// BatchStatusOf maps a run error to the final batch status.
func BatchStatusOf(err error) model.BatchStatus {
	switch {
	case err == nil:
		return model.BatchStatusComplete
	case errors.Is(err, ErrBatchAborted):
		return model.BatchStatusFailed
	default:
		return model.BatchStatusCancelled
	}
}

// RunRecorded runs inputs through p and records the batch in rec: the batch
// row is created up front, each result is saved under its input index as it
// completes, and the batch is finalized even when ctx was cancelled.
// With a nil rec the run is not persisted and the returned batch is nil.
func RunRecorded(ctx context.Context, rec BatchRecorder, source string, p Processor, inputs []model.CompanyInput, opts ...RunnerOption) (*model.Batch, Report, error) {
	if rec == nil {
		return nil, NewRunner(p, opts...).Run(ctx, inputs), nil
	}

	batch, err := rec.CreateBatch(ctx, source, len(inputs))
	if err != nil {
		return nil, Report{}, eris.Wrap(err, "enrich: create batch")
	}

	log := zap.L().With(zap.String("batch_id", batch.ID), zap.String("source", source))
	log.Info("enrich: batch started", zap.Int("total", len(inputs)))

	persist := WithResultHook(func(idx int, res model.EnrichmentResult) {
		if err := rec.SaveResult(context.WithoutCancel(ctx), batch.ID, idx, res); err != nil {
			log.Warn("enrich: save result failed", zap.Int("index", idx), zap.Error(err))
		}
	})
	report := NewRunner(p, append(opts, persist)...).Run(ctx, inputs)

	batch.Status = BatchStatusOf(report.Err)
	batch.Stats = report.Stats
	if report.Err != nil {
		batch.Error = report.Err.Error()
	}
	if err := rec.FinishBatch(context.WithoutCancel(ctx), batch.ID, batch.Status, batch.Stats, batch.Error); err != nil {
		return batch, report, eris.Wrap(err, "enrich: finish batch")
	}
	log.Info("enrich: batch recorded", zap.String("status", string(batch.Status)))
	return batch, report, nil
}
