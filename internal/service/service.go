// Package service is the facade behind every tool, resource and CLI command.
// Each method returns a well-shaped payload; failures are reported inside it.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/dyike/FinSight/config"
	"github.com/dyike/FinSight/internal/alerts"
	"github.com/dyike/FinSight/internal/cache"
	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/llm"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/market"
	"github.com/dyike/FinSight/internal/models"
	"github.com/dyike/FinSight/internal/notify"
	"github.com/dyike/FinSight/internal/portfolio"
	"github.com/dyike/FinSight/internal/summarizer"
)

// Deps are the collaborators a Service is assembled from. News may be nil.
type Deps struct {
	News           dataflows.NewsSource
	NewsMaxResults int
	Summarizer     *summarizer.Summarizer
	Portfolio      *portfolio.Store
	Alerts         *alerts.Evaluator
	Market         *market.Wrapper
}

type Service struct {
	deps         Deps
	contextChain compose.Runnable[string, *models.ContextResponse]
}

func New(ctx context.Context, deps Deps) (*Service, error) {
	chain, err := newContextChain(ctx, deps.News, deps.NewsMaxResults, deps.Summarizer)
	if err != nil {
		return nil, fmt.Errorf("compile financial context chain: %w", err)
	}
	return &Service{deps: deps, contextChain: chain}, nil
}

// NewFromConfig wires the production collaborators selected by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	log := logger.L()

	news, err := NewsSourceFromConfig(cfg)
	if err != nil {
		log.WithError(err).Warn("news search disabled")
	}

	quotes, err := QuotesFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	gen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init text generator: %w", err)
	}
	sum := summarizer.New(gen,
		summarizer.WithTimeout(cfg.SummaryTimeout()),
		summarizer.WithWorkers(cfg.SummarizerWorkers),
	)

	var notifier alerts.Notifier
	telegram := notify.NewTelegramNotifier(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramUserID)
	if telegram.Configured() {
		notifier = telegram
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN or TELEGRAM_USER_ID not set, alerts will not be forwarded")
	}

	deps := Deps{
		News:           news,
		NewsMaxResults: cfg.NewsMaxResults,
		Summarizer:     sum,
		Portfolio:      portfolio.NewStore(cfg.PortfolioFile),
		Alerts:         alerts.NewEvaluator(cfg.AlertsConfigPath, cfg.TechAlertsConfigPath, quotes, notifier),
		Market:         market.NewWrapper(quotes, news),
	}
	return New(ctx, deps)
}

// NewsSourceFromConfig returns nil and an error when the selected provider
// cannot be used.
func NewsSourceFromConfig(cfg *config.Config) (dataflows.NewsSource, error) {
	switch cfg.NewsProvider {
	case config.NewsProviderGoogleRSS:
		return dataflows.NewGoogleNewsRSSClient(""), nil
	case config.NewsProviderSerpAPI, "":
		if cfg.SerpAPIKey == "" {
			return nil, fmt.Errorf("SERPAPI_API_KEY environment variable is not set")
		}
		return dataflows.NewSerpAPIClient(cfg.SerpAPIBaseURL, cfg.SerpAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported news provider %q", cfg.NewsProvider)
	}
}

func QuotesFromConfig(cfg *config.Config) (dataflows.QuoteProvider, error) {
	var provider dataflows.QuoteProvider
	switch cfg.QuoteProvider {
	case config.QuoteProviderLongport:
		lp, err := dataflows.NewLongportQuoteProvider(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken)
		if err != nil {
			return nil, fmt.Errorf("init longport quotes: %w", err)
		}
		provider = lp
	case config.QuoteProviderYahoo, "":
		provider = dataflows.NewYahooQuoteProvider()
	default:
		return nil, fmt.Errorf("unsupported quote provider %q", cfg.QuoteProvider)
	}
	provider = dataflows.NewRateLimitedQuotes(provider, cfg.QuoteRatePerSec)
	if ttl := cfg.QuoteCacheTTL(); ttl > 0 {
		provider = cache.NewQuoteCache(provider, ttl)
	}
	return provider, nil
}

func (s *Service) FinancialContext(ctx context.Context, query string) *models.ContextResponse {
	if strings.TrimSpace(query) == "" {
		logger.L().Error("invalid query input")
		return &models.ContextResponse{
			Error:    "Invalid query input",
			Query:    query,
			Tickers:  []string{},
			Keywords: []string{},
			Context:  []models.Summary{},
		}
	}

	resp, err := s.contextChain.Invoke(ctx, query)
	if err != nil {
		logger.L().WithError(err).Error("unhandled error in financial_context")
		return &models.ContextResponse{
			Error:       err.Error(),
			Query:       query,
			Tickers:     []string{},
			Keywords:    []string{},
			Context:     []models.Summary{},
			FinalPrompt: fmt.Sprintf("Unhandled error: %v", err),
		}
	}
	return resp
}

func (s *Service) MarketSummary(ctx context.Context) *models.MarketWrap {
	return s.deps.Market.Wrap(ctx)
}

func (s *Service) GetPortfolio(ctx context.Context) *models.Watchlist {
	return s.deps.Portfolio.Load()
}

func (s *Service) AddStock(ctx context.Context, ticker string) *models.WatchlistResponse {
	if _, err := s.deps.Portfolio.Add(ticker); err != nil {
		logger.L().WithError(err).WithField("ticker", ticker).Error("error in add_stock")
		return &models.WatchlistResponse{Error: err.Error(), Tickers: []string{}}
	}
	return &models.WatchlistResponse{Tickers: s.deps.Portfolio.Load().Tickers}
}

func (s *Service) RemoveStock(ctx context.Context, ticker string) *models.WatchlistResponse {
	if _, err := s.deps.Portfolio.Remove(ticker); err != nil {
		logger.L().WithError(err).WithField("ticker", ticker).Error("error in remove_stock")
		return &models.WatchlistResponse{Error: err.Error(), Tickers: []string{}}
	}
	return &models.WatchlistResponse{Tickers: s.deps.Portfolio.Load().Tickers}
}

// PortfolioAlerts scans every configured ticker for "ALL" (or an empty
// selector) and otherwise reports trading opportunities for that ticker.
func (s *Service) PortfolioAlerts(ctx context.Context, selector string) *models.AlertsResponse {
	selector = strings.TrimSpace(selector)
	if selector != "" && !strings.EqualFold(selector, "ALL") {
		return s.Opportunities(ctx, selector)
	}
	return &models.AlertsResponse{Alerts: s.deps.Alerts.Check(ctx, nil)}
}

// Opportunities reports buy/sell zones and nearby support/resistance for one
// ticker without notifying.
func (s *Service) Opportunities(ctx context.Context, ticker string) *models.AlertsResponse {
	symbol := dataflows.NormalizeSymbol(ticker)
	if symbol == "" {
		return noTicker()
	}
	return &models.AlertsResponse{Alerts: s.deps.Alerts.Opportunities(ctx, symbol)}
}

// CheckStockAlerts keeps only the messages that mention ticker.
func (s *Service) CheckStockAlerts(ctx context.Context, ticker string) *models.AlertsResponse {
	symbol := dataflows.NormalizeSymbol(ticker)
	if symbol == "" {
		return noTicker()
	}
	filtered := []string{}
	for _, alert := range s.deps.Alerts.Check(ctx, []string{symbol}) {
		if strings.Contains(alert, symbol) {
			filtered = append(filtered, alert)
		}
	}
	return &models.AlertsResponse{Alerts: filtered}
}

func (s *Service) SingleStockAlert(ctx context.Context, ticker string) *models.AlertsResponse {
	symbol := dataflows.NormalizeSymbol(ticker)
	if symbol == "" {
		return noTicker()
	}
	return &models.AlertsResponse{Alerts: s.deps.Alerts.Check(ctx, []string{symbol})}
}

func (s *Service) SendStockAlert(ctx context.Context, ticker string) *models.AlertsResponse {
	symbol := dataflows.NormalizeSymbol(ticker)
	if symbol == "" {
		return noTicker()
	}
	return &models.AlertsResponse{Alerts: s.deps.Alerts.SendOpportunities(ctx, symbol)}
}

func (s *Service) TechAlerts(ctx context.Context) *models.AlertsResponse {
	return &models.AlertsResponse{Alerts: s.deps.Alerts.TechAlerts(ctx)}
}

// RulePaths lists the rule documents the evaluator reads.
func (s *Service) RulePaths() []string {
	return s.deps.Alerts.RulePaths()
}

func noTicker() *models.AlertsResponse {
	return &models.AlertsResponse{Alerts: []string{"⚠️ No ticker provided"}}
}
