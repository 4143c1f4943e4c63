package dataflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
)

// LongportQuoteProvider reads quotes through the Longport OpenAPI quote context.
// Bare US tickers are mapped to the "AAPL.US" form Longport expects.
type LongportQuoteProvider struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportQuoteProvider(appKey, appSecret, accessToken string) (*LongportQuoteProvider, error) {
	if appKey == "" || appSecret == "" || accessToken == "" {
		return nil, errors.New("longport credentials are not configured")
	}
	conf, err := config.New(config.WithConfigKey(appKey, appSecret, accessToken))
	if err != nil {
		return nil, fmt.Errorf("longport config: %w", err)
	}
	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, fmt.Errorf("longport quote context: %w", err)
	}
	return &LongportQuoteProvider{quoteCtx: quoteContext}, nil
}

func (lpc *LongportQuoteProvider) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	symbol = NormalizeSymbol(symbol)

	quotes, err := lpc.quoteCtx.Quote(ctx, []string{longportSymbol(symbol)})
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if len(quotes) == 0 || quotes[0] == nil || quotes[0].LastDone == nil {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	return quoteFromLast(symbol, *quotes[0].LastDone, quotes[0].PrevClose), nil
}

func quoteFromLast(symbol string, last decimal.Decimal, prevClose *decimal.Decimal) *Quote {
	q := &Quote{Symbol: symbol, Price: last}
	if prevClose != nil && !prevClose.IsZero() {
		q.Change = last.Sub(*prevClose)
		q.ChangePercent = q.Change.Div(*prevClose).Mul(decimal.NewFromInt(100))
	}
	return q
}

func longportSymbol(symbol string) string {
	if strings.Contains(symbol, ".") || strings.HasPrefix(symbol, "^") {
		return symbol
	}
	return symbol + ".US"
}

func (lpc *LongportQuoteProvider) Close() {
	if lpc.quoteCtx != nil {
		lpc.quoteCtx.Close()
	}
}
