package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/logger"
)

// QuoteCache keeps recent quotes in memory so that a market wrap followed by
// an alert scan does not fetch the same symbol twice. Errors are not cached.
type QuoteCache struct {
	inner dataflows.QuoteProvider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]*cachedQuote
}

type cachedQuote struct {
	quote     dataflows.Quote
	fetchedAt time.Time
}

func NewQuoteCache(inner dataflows.QuoteProvider, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cachedQuote),
	}
}

func (c *QuoteCache) GetQuote(ctx context.Context, symbol string) (*dataflows.Quote, error) {
	key := dataflows.NormalizeSymbol(symbol)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(cached.fetchedAt) <= c.ttl {
		logger.L().WithField("symbol", key).Debug("using cached quote")
		q := cached.quote
		return &q, nil
	}

	q, err := c.inner.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cachedQuote{quote: *q, fetchedAt: c.now()}
	c.mu.Unlock()
	return q, nil
}

func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedQuote)
}

// Len counts entries, expired ones included.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
