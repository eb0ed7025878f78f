package enrich

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the pause between two input starts.
const DefaultInterval = 100 * time.Millisecond

// Throttle paces batch dispatch.
type Throttle interface {
	Wait(ctx context.Context) error
}

// IntervalThrottle allows one start per interval.
type IntervalThrottle struct {
	limiter *rate.Limiter
}

// NewIntervalThrottle returns a throttle allowing one event every d. d <= 0
// returns NoThrottle.
func NewIntervalThrottle(d time.Duration) Throttle {
	if d <= 0 {
		return NoThrottle{}
	}
	return &IntervalThrottle{limiter: rate.NewLimiter(rate.Every(d), 1)}
}

// Wait blocks until the next start is allowed or ctx is done.
func (t *IntervalThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// NoThrottle never waits, but still honors cancellation.
type NoThrottle struct{}

// Wait returns ctx.Err().
func (NoThrottle) Wait(ctx context.Context) error {
	return ctx.Err()
}
