package dataflows

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooQuoteProvider reads regular-market quotes from Yahoo Finance
type YahooQuoteProvider struct {
	fetch func(symbol string) (*Quote, error)
}

func NewYahooQuoteProvider() *YahooQuoteProvider {
	return &YahooQuoteProvider{fetch: fetchYahooQuote}
}

func (yf *YahooQuoteProvider) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return yf.fetch(NormalizeSymbol(symbol))
}

func fetchYahooQuote(symbol string) (*Quote, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	return &Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(q.RegularMarketPrice),
		Change:        decimal.NewFromFloat(q.RegularMarketChange),
		ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
	}, nil
}
