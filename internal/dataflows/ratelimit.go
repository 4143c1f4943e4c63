package dataflows

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedQuotes throttles calls to the wrapped provider.
type RateLimitedQuotes struct {
	inner   QuoteProvider
	limiter *rate.Limiter
}

// NewRateLimitedQuotes allows perSecond calls with a burst of one. A non-positive
// rate disables throttling.
func NewRateLimitedQuotes(inner QuoteProvider, perSecond float64) *RateLimitedQuotes {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimitedQuotes{
		inner:   inner,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (r *RateLimitedQuotes) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.GetQuote(ctx, symbol)
}
