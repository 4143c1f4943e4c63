package dataflows

import (
	"context"

	"github.com/dyike/FinSight/internal/models"
	"github.com/shopspring/decimal"
)

const defaultMaxResults = 5

// NewsSource searches a news vertical and normalizes the hits into Articles.
type NewsSource interface {
	SearchNews(ctx context.Context, query string, tickers []string, maxResults int) ([]models.Article, error)
}

// Quote is the current price state of one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}
