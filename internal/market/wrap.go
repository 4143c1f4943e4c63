// Package market builds the global market snapshot: indices, top movers and headlines.
package market

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	wrapSummary   = "Live global market summary with top movers and headlines."
	headlineQuery = "stock market news"
	maxHeadlines  = 5
	maxMovers     = 3
)

type index struct {
	Symbol string
	Name   string
}

var Indices = []index{
	{"^GSPC", "S&P 500"},
	{"^IXIC", "NASDAQ"},
	{"^DJI", "DOW JONES"},
	{"^FTSE", "FTSE 100"},
	{"^N225", "Nikkei 225"},
	{"^HSI", "Hang Seng"},
	{"^BSESN", "BSE Sensex"},
	{"^FCHI", "CAC 40"},
	{"^GDAXI", "DAX"},
	{"^STOXX50E", "EURO STOXX 50"},
}

var TrackedTickers = []string{"AAPL", "TSLA", "GOOGL", "MSFT", "AMZN", "NVDA", "META"}

var printer = message.NewPrinter(language.English)

// Wrapper assembles a MarketWrap. news may be nil, in which case the wrap has
// no headlines.
type Wrapper struct {
	quotes dataflows.QuoteProvider
	news   dataflows.NewsSource
	now    func() time.Time
}

func NewWrapper(quotes dataflows.QuoteProvider, news dataflows.NewsSource) *Wrapper {
	return &Wrapper{quotes: quotes, news: news, now: time.Now}
}

// Wrap never fails; per-symbol problems are isolated in the result.
func (w *Wrapper) Wrap(ctx context.Context) *models.MarketWrap {
	gainers, losers := w.movers(ctx)
	return &models.MarketWrap{
		Timestamp:     w.now().UTC().Format("2006-01-02T15:04:05.000000Z"),
		Indices:       w.indices(ctx),
		TopGainers:    gainers,
		TopLosers:     losers,
		NewsHeadlines: w.headlines(ctx),
		Summary:       wrapSummary,
	}
}

func (w *Wrapper) indices(ctx context.Context) models.Indices {
	out := make(models.Indices, 0, len(Indices))
	for _, ix := range Indices {
		q, err := w.quotes.GetQuote(ctx, ix.Symbol)
		if err != nil {
			out = append(out, models.IndexSnapshot{Name: ix.Name, Error: err.Error()})
			continue
		}
		out = append(out, models.IndexSnapshot{
			Name:    ix.Name,
			Price:   FormatPrice(q.Price),
			Change:  fmt.Sprintf("%+.2f", q.Change.InexactFloat64()),
			Percent: fmt.Sprintf("%+.2f%%", q.ChangePercent.InexactFloat64()),
		})
	}
	return out
}

// movers splits tracked tickers by the sign of their percent change. Failed
// quotes are skipped.
func (w *Wrapper) movers(ctx context.Context) (gainers, losers []models.Mover) {
	type moved struct {
		mover   models.Mover
		percent decimal.Decimal
	}
	var up, down []moved
	for _, symbol := range TrackedTickers {
		q, err := w.quotes.GetQuote(ctx, symbol)
		if err != nil {
			logger.L().WithError(err).WithField("ticker", symbol).Debug("skipping mover")
			continue
		}
		m := moved{
			mover: models.Mover{
				Ticker: symbol,
				Price:  FormatPrice(q.Price),
				Change: fmt.Sprintf("%+.2f%%", q.ChangePercent.InexactFloat64()),
			},
			percent: q.ChangePercent,
		}
		if q.ChangePercent.IsNegative() {
			down = append(down, m)
		} else {
			up = append(up, m)
		}
	}

	sort.SliceStable(up, func(i, j int) bool { return up[i].percent.GreaterThan(up[j].percent) })
	sort.SliceStable(down, func(i, j int) bool { return down[i].percent.LessThan(down[j].percent) })

	gainers = make([]models.Mover, 0, maxMovers)
	for i := 0; i < len(up) && i < maxMovers; i++ {
		gainers = append(gainers, up[i].mover)
	}
	losers = make([]models.Mover, 0, maxMovers)
	for i := 0; i < len(down) && i < maxMovers; i++ {
		losers = append(losers, down[i].mover)
	}
	return gainers, losers
}

func (w *Wrapper) headlines(ctx context.Context) []models.Headline {
	if w.news == nil {
		return []models.Headline{}
	}
	articles, err := w.news.SearchNews(ctx, headlineQuery, nil, maxHeadlines)
	if err != nil {
		logger.L().WithError(err).Warn("market headlines unavailable")
		return []models.Headline{{Error: err.Error()}}
	}
	out := make([]models.Headline, 0, len(articles))
	for _, a := range articles {
		out = append(out, models.Headline{Title: a.Title, Link: a.Link})
	}
	return out
}

// FormatPrice renders a thousands-separated dollar amount, e.g. "$5,321.07".
func FormatPrice(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}
