package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a provider with a token-bucket limiter. Calls are
// sequential, so this is simple rate-limit compliance, not fairness.
type RateLimited struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited provider wrapper.
func NewRateLimited(inner Provider, requestsPerSecond float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name.
func (p *RateLimited) Name() string { return p.inner.Name() }

// IsAvailable delegates to the wrapped provider.
func (p *RateLimited) IsAvailable(ctx context.Context) bool { return p.inner.IsAvailable(ctx) }

// Screen waits for rate limit clearance, then delegates.
func (p *RateLimited) Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Screen(ctx, req)
}
