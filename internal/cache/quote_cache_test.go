package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/shopspring/decimal"
)

type countingQuotes struct {
	calls int
	fail  bool
}

func (c *countingQuotes) GetQuote(ctx context.Context, symbol string) (*dataflows.Quote, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("unavailable")
	}
	return &dataflows.Quote{Symbol: symbol, Price: decimal.NewFromInt(int64(100 + c.calls))}, nil
}

func TestQuoteCacheServesFreshEntries(t *testing.T) {
	inner := &countingQuotes{}
	c := NewQuoteCache(inner, time.Minute)
	now := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	second, _ := c.GetQuote(context.Background(), "AAPL")
	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
	if !first.Price.Equal(second.Price) {
		t.Errorf("cached price %s != %s", second.Price, first.Price)
	}

	now = now.Add(2 * time.Minute)
	third, _ := c.GetQuote(context.Background(), "AAPL")
	if inner.calls != 2 || third.Price.Equal(first.Price) {
		t.Errorf("expired entry should refetch, calls=%d", inner.calls)
	}
}

func TestQuoteCacheDoesNotCacheErrors(t *testing.T) {
	inner := &countingQuotes{fail: true}
	c := NewQuoteCache(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.GetQuote(context.Background(), "XOM"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 || c.Len() != 0 {
		t.Errorf("calls=%d len=%d", inner.calls, c.Len())
	}
}

func TestQuoteCacheClear(t *testing.T) {
	c := NewQuoteCache(&countingQuotes{}, time.Minute)
	c.GetQuote(context.Background(), "MSFT")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}
