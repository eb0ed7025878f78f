package enrich

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/pkg/entreprises"
)

// SearchCache persists raw search responses by normalized term.
// store.Store implements it.
type SearchCache interface {
	GetCachedSearch(ctx context.Context, term string, maxAge time.Duration) ([]byte, bool, error)
	SetCachedSearch(ctx context.Context, term string, payload []byte) error
}

// CachedSearcher serves repeated terms from a SearchCache. Only successful
// responses are cached, including empty ones. Cache failures are logged
// and bypassed.
type CachedSearcher struct {
	next  Searcher
	cache SearchCache
	ttl   time.Duration
}

// NewCachedSearcher wraps next with cache. Entries older than ttl are ignored.
func NewCachedSearcher(next Searcher, cache SearchCache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache, ttl: ttl}
}

// CacheKey normalizes a search term.
func CacheKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Search implements Searcher.
func (c *CachedSearcher) Search(ctx context.Context, term string) (*entreprises.SearchResponse, error) {
	key := CacheKey(term)

	payload, ok, err := c.cache.GetCachedSearch(ctx, key, c.ttl)
	switch {
	case err != nil:
		zap.L().Warn("enrich: search cache read failed", zap.String("term", key), zap.Error(err))
	case ok:
		var resp entreprises.SearchResponse
		if err := json.Unmarshal(payload, &resp); err == nil {
			zap.L().Debug("enrich: search cache hit", zap.String("term", key))
			return &resp, nil
		}
		zap.L().Warn("enrich: corrupt search cache entry", zap.String("term", key))
	}

	resp, err := c.next.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := c.cache.SetCachedSearch(ctx, key, data); err != nil {
			zap.L().Warn("enrich: search cache write failed", zap.String("term", key), zap.Error(err))
		}
	}
	return resp, nil
}
