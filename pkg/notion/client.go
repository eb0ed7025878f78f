// Package notion reads and updates a Notion database used as a queue of
// leads to enrich.
package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultRateLimit is Notion's documented per-integration limit, in req/s.
const DefaultRateLimit = 3

// Client is the slice of the Notion API the lead queue needs.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// Config is the lead queue integration.
type Config struct {
	Token string
	// LeadDB is the lead database used when no override is given.
	LeadDB string
	// RateLimit in req/s. Zero means DefaultRateLimit; negative disables it.
	RateLimit float64
}

// LeadDatabase returns override, or the configured lead database.
func (c Config) LeadDatabase(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if c.LeadDB == "" {
		return "", eris.New("notion: no lead database configured")
	}
	return c.LeadDB, nil
}

type leadClient struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

// NewClient returns a throttled client for cfg.Token.
func NewClient(cfg Config) (Client, error) {
	if cfg.Token == "" {
		return nil, eris.New("notion: integration token is required")
	}
	c := &leadClient{api: notionapi.NewClient(notionapi.Token(cfg.Token))}
	switch {
	case cfg.RateLimit == 0:
		c.limiter = rate.NewLimiter(DefaultRateLimit, 1)
	case cfg.RateLimit > 0:
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(int(cfg.RateLimit), 1))
	}
	return c, nil
}

// throttled waits for a rate-limit token, then runs call and wraps its
// error with op.
func throttled[T any](ctx context.Context, l *rate.Limiter, op string, call func() (T, error)) (T, error) {
	var zero T
	if l != nil {
		if err := l.Wait(ctx); err != nil {
			return zero, eris.Wrapf(err, "notion: rate limit before %s", op)
		}
	}
	v, err := call()
	if err != nil {
		return zero, eris.Wrapf(err, "notion: %s", op)
	}
	return v, nil
}

func (c *leadClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return throttled(ctx, c.limiter, "query leads "+dbID, func() (*notionapi.DatabaseQueryResponse, error) {
		return c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
	})
}

func (c *leadClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return throttled(ctx, c.limiter, "create lead", func() (*notionapi.Page, error) {
		return c.api.Page.Create(ctx, req)
	})
}

func (c *leadClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return throttled(ctx, c.limiter, "update lead "+pageID, func() (*notionapi.Page, error) {
		return c.api.Page.Update(ctx, notionapi.PageID(pageID), req)
	})
}
