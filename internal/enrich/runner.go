package enrich

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/company-enrich/internal/model"
)

// MaxConcurrency caps parallel registry lookups within one batch.
const MaxConcurrency = 8

// ErrBatchAborted reports an unexpected failure that stopped a batch.
var ErrBatchAborted = eris.New("enrich: batch aborted")

// Processor enriches a single input. *Enricher implements it.
type Processor interface {
	Enrich(ctx context.Context, in model.CompanyInput) model.EnrichmentResult
}

// Progress is the number of completed inputs out of Total.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Report is the outcome of a batch run.
type Report struct {
	// Results holds every completed result, in input order.
	Results  []model.EnrichmentResult
	Progress Progress
	Stats    model.BatchStats
	// Err is set when the batch was cancelled or aborted. Results completed
	// before that point are still returned.
	Err error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency sets the number of parallel workers, clamped to
// [1, MaxConcurrency].
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.concurrency = min(max(n, 1), MaxConcurrency)
	}
}

// WithThrottle sets the dispatch throttle.
func WithThrottle(t Throttle) RunnerOption {
	return func(r *Runner) {
		if t != nil {
			r.throttle = t
		}
	}
}

// WithProgress registers a callback invoked after each completion. Calls
// are serialized and Current increases by one each time.
func WithProgress(fn func(Progress)) RunnerOption {
	return func(r *Runner) {
		r.onProgress = fn
	}
}

// WithResultHook registers a callback invoked with each result and its input
// index as soon as it completes. Calls are serialized. Hooks accumulate and
// run in registration order.
func WithResultHook(fn func(idx int, res model.EnrichmentResult)) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.onResult = append(r.onResult, fn)
		}
	}
}

// Runner enriches an ordered list of inputs.
type Runner struct {
	processor   Processor
	concurrency int
	throttle    Throttle
	onProgress  func(Progress)
	onResult    []func(int, model.EnrichmentResult)
}

// NewRunner creates a sequential runner paced at DefaultInterval.
func NewRunner(p Processor, opts ...RunnerOption) *Runner {
	r := &Runner{
		processor:   p,
		concurrency: 1,
		throttle:    NewIntervalThrottle(DefaultInterval),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run enriches inputs and returns results in input order. Cancelling ctx
// stops dispatch; in-flight inputs finish with their context cancelled.
func (r *Runner) Run(ctx context.Context, inputs []model.CompanyInput) Report {
	total := len(inputs)
	results := make([]model.EnrichmentResult, total)
	done := make([]bool, total)

	var (
		completed atomic.Int64
		mu        sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, in := range inputs {
		if err := r.throttle.Wait(gctx); err != nil {
			break
		}

		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					zap.L().Error("enrich: panic in batch worker",
						zap.Int("index", i),
						zap.String("input", in.Input),
						zap.Any("panic", p),
					)
					err = eris.Wrapf(ErrBatchAborted, "input %d: %v", i, p)
				}
			}()

			if gctx.Err() != nil {
				return nil
			}
			res := r.processor.Enrich(gctx, in)

			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			done[i] = true
			n := int(completed.Add(1))
			for _, hook := range r.onResult {
				hook(i, res)
			}
			if r.onProgress != nil {
				r.onProgress(Progress{Current: n, Total: total})
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil && int(completed.Load()) < total {
		err = eris.Wrap(ctx.Err(), "enrich: batch cancelled")
	}

	out := make([]model.EnrichmentResult, 0, completed.Load())
	for i, ok := range done {
		if ok {
			out = append(out, results[i])
		}
	}

	report := Report{
		Results:  out,
		Progress: Progress{Current: len(out), Total: total},
		Stats:    model.StatsOf(out),
		Err:      err,
	}

	zap.L().Info("enrich: batch finished",
		zap.Int("total", total),
		zap.Int("completed", report.Stats.Completed),
		zap.Int("succeeded", report.Stats.Succeeded),
		zap.Int("not_found", report.Stats.NotFound),
		zap.Int("failed", report.Stats.Failed),
		zap.Error(err),
	)
	return report
}
