package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dyike/FinSight/internal/alerts"
	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/market"
	"github.com/dyike/FinSight/internal/models"
	"github.com/dyike/FinSight/internal/portfolio"
	"github.com/dyike/FinSight/internal/summarizer"
	"github.com/shopspring/decimal"
)

type stubNews struct {
	articles []models.Article
	err      error
	query    string
	tickers  []string
}

func (s *stubNews) SearchNews(ctx context.Context, query string, tickers []string, maxResults int) ([]models.Article, error) {
	s.query, s.tickers = query, tickers
	return s.articles, s.err
}

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "Summary: digest\nSentiment: bullish", nil
}

type stubQuotes map[string]float64

func (s stubQuotes) GetQuote(ctx context.Context, symbol string) (*dataflows.Quote, error) {
	price, ok := s[symbol]
	if !ok {
		return nil, errors.New("no data")
	}
	return &dataflows.Quote{Symbol: symbol, Price: decimal.NewFromFloat(price)}, nil
}

type recordingNotifier struct{ sent []string }

func (r *recordingNotifier) Send(ctx context.Context, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

const testRules = `{"tech": {"AAPL": {"below": 200, "description": "core"}, "MSFT": {"above": 500}}}`
const testTechRules = `{"chips": {"NVDA": {"above": 100, "below": 50, "description": "AI"}}}`

type fixture struct {
	svc      *Service
	news     *stubNews
	notifier *recordingNotifier
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	rules := filepath.Join(dir, "alerts_config.json")
	tech := filepath.Join(dir, "tech_alerts_config.json")
	if err := os.WriteFile(rules, []byte(testRules), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tech, []byte(testTechRules), 0o644); err != nil {
		t.Fatal(err)
	}

	news := &stubNews{}
	notifier := &recordingNotifier{}
	quotes := stubQuotes{"AAPL": 150, "MSFT": 400, "NVDA": 120}

	svc, err := New(context.Background(), Deps{
		News:           news,
		NewsMaxResults: 5,
		Summarizer:     summarizer.New(echoGenerator{}),
		Portfolio:      portfolio.NewStore(filepath.Join(dir, "data", "user_portfolio.json")),
		Alerts:         alerts.NewEvaluator(rules, tech, quotes, notifier),
		Market:         market.NewWrapper(quotes, news),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{svc: svc, news: news, notifier: notifier, dir: dir}
}

func TestFinancialContext(t *testing.T) {
	f := newFixture(t)
	f.news.articles = []models.Article{
		{Title: "Apple earnings beat", Content: "Revenue up"},
		{Title: "iPhone demand", Content: "Strong"},
	}

	resp := f.svc.FinancialContext(context.Background(), "What about AAPL earnings?")

	if resp.Error != "" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
	if !reflect.DeepEqual(resp.Tickers, []string{"AAPL"}) || !reflect.DeepEqual(resp.Keywords, []string{"earnings"}) {
		t.Fatalf("entities = %v / %v", resp.Tickers, resp.Keywords)
	}
	if !reflect.DeepEqual(f.news.tickers, []string{"AAPL"}) {
		t.Fatalf("fetch tickers = %v", f.news.tickers)
	}
	if len(resp.Context) != 2 || resp.Context[1].Title != "iPhone demand" || resp.Context[0].Sentiment != models.SentimentPositive {
		t.Fatalf("context = %+v", resp.Context)
	}
	if !strings.Contains(resp.FinalPrompt, "🔍 User Query: What about AAPL earnings?") ||
		!strings.Contains(resp.FinalPrompt, "[Apple earnings beat]\ndigest (Sentiment: POSITIVE)") {
		t.Fatalf("final prompt = %q", resp.FinalPrompt)
	}
}

func TestFinancialContextEmptySearch(t *testing.T) {
	f := newFixture(t)

	resp := f.svc.FinancialContext(context.Background(), "quiet day")

	if resp.Context == nil || len(resp.Context) != 0 {
		t.Fatalf("context = %#v", resp.Context)
	}
	if resp.FinalPrompt != "No recent market data found for the query." {
		t.Fatalf("final prompt = %q", resp.FinalPrompt)
	}
	if resp.Error != "" {
		t.Fatalf("empty search is not an error, got %q", resp.Error)
	}
}

func TestFinancialContextFetchFailure(t *testing.T) {
	f := newFixture(t)
	f.news.err = errors.New("Invalid API key.")

	resp := f.svc.FinancialContext(context.Background(), "TSLA stock")

	if resp.Error != "Failed to fetch articles: Invalid API key." {
		t.Fatalf("error = %q", resp.Error)
	}
	if resp.FinalPrompt != "Error fetching market data: Invalid API key." {
		t.Fatalf("final prompt = %q", resp.FinalPrompt)
	}
	if !reflect.DeepEqual(resp.Tickers, []string{"TSLA"}) || len(resp.Context) != 0 {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestFinancialContextInvalidQuery(t *testing.T) {
	f := newFixture(t)
	resp := f.svc.FinancialContext(context.Background(), "   ")
	if resp.Error != "Invalid query input" || resp.Tickers == nil || resp.Context == nil {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestWatchlistFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if got := f.svc.AddStock(ctx, "tsla"); !reflect.DeepEqual(got.Tickers, []string{"TSLA"}) || got.Error != "" {
		t.Fatalf("add = %+v", got)
	}
	if got := f.svc.GetPortfolio(ctx); !reflect.DeepEqual(got.Tickers, []string{"TSLA"}) {
		t.Fatalf("portfolio = %+v", got)
	}
	if got := f.svc.RemoveStock(ctx, "AAPL"); !reflect.DeepEqual(got.Tickers, []string{"TSLA"}) {
		t.Fatalf("remove absent = %+v", got)
	}
	if got := f.svc.RemoveStock(ctx, "tsla"); len(got.Tickers) != 0 || got.Tickers == nil {
		t.Fatalf("remove = %+v", got)
	}
	if got := f.svc.AddStock(ctx, ""); got.Error == "" || got.Tickers == nil || len(got.Tickers) != 0 {
		t.Fatalf("empty add = %+v", got)
	}
}

func TestPortfolioAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all := f.svc.PortfolioAlerts(ctx, "all")
	want := []string{"🟢 Buy Signal: AAPL at $150\n• Price below buy threshold $200\nNote: core"}
	if !reflect.DeepEqual(all.Alerts, want) {
		t.Fatalf("ALL = %q", all.Alerts)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.sent))
	}

	one := f.svc.PortfolioAlerts(ctx, "aapl")
	if len(one.Alerts) != 3 || one.Alerts[0] != "🟢 Buy Signal for AAPL at $150" {
		t.Fatalf("AAPL = %q", one.Alerts)
	}
}

func TestCheckStockAlertsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got := f.svc.CheckStockAlerts(ctx, " msft ")
	if !reflect.DeepEqual(got.Alerts, []string{"ℹ️ MSFT at $400 - No trading signals triggered"}) {
		t.Fatalf("alerts = %q", got.Alerts)
	}
	if got := f.svc.CheckStockAlerts(ctx, ""); !reflect.DeepEqual(got.Alerts, []string{"⚠️ No ticker provided"}) {
		t.Fatalf("alerts = %q", got.Alerts)
	}
	if got := f.svc.SingleStockAlert(ctx, "GME"); !reflect.DeepEqual(got.Alerts, []string{"⚠️ No configuration found for GME"}) {
		t.Fatalf("alerts = %q", got.Alerts)
	}
}

func TestSendStockAlertAndTechAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent := f.svc.SendStockAlert(ctx, "AAPL")
	if len(sent.Alerts) == 0 || len(f.notifier.sent) != 1 ||
		!strings.HasPrefix(f.notifier.sent[0], "💰 Trading Opportunities for AAPL:\n\n") {
		t.Fatalf("send = %q, notifications = %q", sent.Alerts, f.notifier.sent)
	}

	tech := f.svc.TechAlerts(ctx)
	if !reflect.DeepEqual(tech.Alerts, []string{"📈 NVDA is above $100 ($120) - AI"}) {
		t.Fatalf("tech = %q", tech.Alerts)
	}
}

func TestMarketSummaryUsesNewsSource(t *testing.T) {
	f := newFixture(t)
	f.news.articles = []models.Article{{Title: "Stocks climb", Link: "https://x"}}

	wrap := f.svc.MarketSummary(context.Background())

	if len(wrap.NewsHeadlines) != 1 || wrap.NewsHeadlines[0].Title != "Stocks climb" {
		t.Fatalf("headlines = %+v", wrap.NewsHeadlines)
	}
	if len(wrap.Indices) != len(market.Indices) {
		t.Fatalf("indices = %d", len(wrap.Indices))
	}
}
