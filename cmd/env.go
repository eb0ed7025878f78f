package main

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/enrich"
	"github.com/sells-group/company-enrich/internal/resilience"
	"github.com/sells-group/company-enrich/internal/store"
	"github.com/sells-group/company-enrich/pkg/entreprises"
	"github.com/sells-group/company-enrich/pkg/notion"
)

// enrichEnv bundles what the enrich and serve commands need.
type enrichEnv struct {
	Store    store.Store // nil when persistence is disabled
	Enricher *enrich.Enricher
}

// Close releases resources held by the environment.
func (e *enrichEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func notionConfig() notion.Config {
	return notion.Config{
		Token:     cfg.Notion.Token,
		LeadDB:    cfg.Notion.LeadDB,
		RateLimit: cfg.Notion.RateLimit,
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

func newRegistryClient() entreprises.Client {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Registry.MaxAttempts
	retry.OnRetry = resilience.RetryLogger("registry search")

	breaker := resilience.DefaultCircuitBreakerConfig()
	if cfg.Registry.BreakerThreshold > 0 {
		breaker.FailureThreshold = cfg.Registry.BreakerThreshold
	}
	breaker.OnStateChange = func(from, to resilience.CircuitState) {
		zap.L().Warn("registry circuit breaker",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	opts := []entreprises.Option{
		entreprises.WithBaseURL(cfg.Registry.BaseURL),
		entreprises.WithRateLimit(cfg.Registry.RateLimit),
		entreprises.WithRetry(retry),
		entreprises.WithCircuitBreaker(resilience.NewCircuitBreaker(breaker)),
	}
	if t := cfg.Registry.Timeout(); t > 0 {
		opts = append(opts, entreprises.WithHTTPClient(&http.Client{Timeout: t}))
	}
	return entreprises.NewClient(opts...)
}

// initEnricher builds the enricher and, unless noStore is set, opens the
// store backing batch history and the search cache. Callers should defer
// env.Close().
func initEnricher(ctx context.Context, noStore bool) (*enrichEnv, error) {
	tables, err := enrich.LoadTables(cfg.Tables.Path)
	if err != nil {
		return nil, err
	}

	env := &enrichEnv{}
	var searcher enrich.Searcher = newRegistryClient()

	if !noStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		env.Store = st
		if ttl := cfg.Store.CacheTTL(); ttl > 0 {
			searcher = enrich.NewCachedSearcher(searcher, st, ttl)
		}
	}

	env.Enricher = enrich.New(searcher,
		enrich.WithTables(tables),
		enrich.WithDirectoryURL(cfg.Registry.DirectoryURL),
	)
	return env, nil
}

// runnerOptions returns the batch options from config, with concurrency
// overridden when n > 0.
func runnerOptions(n int) []enrich.RunnerOption {
	if n <= 0 {
		n = cfg.Batch.Concurrency
	}
	return []enrich.RunnerOption{
		enrich.WithConcurrency(n),
		enrich.WithThrottle(enrich.NewIntervalThrottle(cfg.Batch.Interval())),
	}
}
