// Package tools exposes the service operations as eino invokable tools.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/dyike/FinSight/internal/models"
)

// Backend is the set of operations the tools dispatch to.
type Backend interface {
	FinancialContext(ctx context.Context, query string) *models.ContextResponse
	MarketSummary(ctx context.Context) *models.MarketWrap
	GetPortfolio(ctx context.Context) *models.Watchlist
	AddStock(ctx context.Context, ticker string) *models.WatchlistResponse
	RemoveStock(ctx context.Context, ticker string) *models.WatchlistResponse
	PortfolioAlerts(ctx context.Context, selector string) *models.AlertsResponse
	CheckStockAlerts(ctx context.Context, ticker string) *models.AlertsResponse
	SingleStockAlert(ctx context.Context, ticker string) *models.AlertsResponse
	SendStockAlert(ctx context.Context, ticker string) *models.AlertsResponse
	TechAlerts(ctx context.Context) *models.AlertsResponse
}

func noParams() *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{})
}

func tickerParam(desc string) *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"ticker": {
			Type:     schema.String,
			Desc:     desc,
			Required: true,
		},
	})
}

// All returns every tool in listing order.
func All(b Backend) []tool.InvokableTool {
	return []tool.InvokableTool{
		NewFinancialContextTool(b),
		NewMarketSummaryTool(b),
		NewGetPortfolioTool(b),
		NewAddStockTool(b),
		NewRemoveStockTool(b),
		NewPortfolioAlertsTool(b),
		NewCheckStockAlertsTool(b),
		NewSingleStockAlertTool(b),
		NewSendStockAlertTool(b),
		NewTechAlertsTool(b),
	}
}

func NewFinancialContextTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "financial_context",
			Desc: "Search recent financial news for a query, summarize each article with sentiment and build a market-aware answer prompt",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "Free-text question, e.g. \"What about AAPL earnings?\"",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.ContextInput) (*models.ContextResponse, error) {
			return b.FinancialContext(ctx, input.Query), nil
		},
	)
}

func NewMarketSummaryTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "market_summary",
			Desc:        "Live global market snapshot: major indices, top movers and headlines",
			ParamsOneOf: noParams(),
		},
		func(ctx context.Context, _ models.EmptyInput) (*models.MarketWrap, error) {
			return b.MarketSummary(ctx), nil
		},
	)
}

func NewGetPortfolioTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_portfolio",
			Desc:        "Return the tickers on the watchlist",
			ParamsOneOf: noParams(),
		},
		func(ctx context.Context, _ models.EmptyInput) (*models.Watchlist, error) {
			return b.GetPortfolio(ctx), nil
		},
	)
}

func NewAddStockTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "add_stock",
			Desc:        "Add a ticker to the watchlist and return the updated watchlist",
			ParamsOneOf: tickerParam("Ticker symbol to add"),
		},
		func(ctx context.Context, input models.TickerInput) (*models.WatchlistResponse, error) {
			return b.AddStock(ctx, input.Ticker), nil
		},
	)
}

func NewRemoveStockTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "remove_stock",
			Desc:        "Remove a ticker from the watchlist and return the updated watchlist",
			ParamsOneOf: tickerParam("Ticker symbol to remove"),
		},
		func(ctx context.Context, input models.TickerInput) (*models.WatchlistResponse, error) {
			return b.RemoveStock(ctx, input.Ticker), nil
		},
	)
}

func NewPortfolioAlertsTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "portfolio_alerts",
			Desc: "Check trading signals. Pass \"ALL\" to scan every configured stock, or a ticker for its trading opportunities",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"random_string": {
					Type:     schema.String,
					Desc:     "\"ALL\" or a ticker symbol",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.AlertSelectorInput) (*models.AlertsResponse, error) {
			return b.PortfolioAlerts(ctx, input.Selector), nil
		},
	)
}

func NewCheckStockAlertsTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "check_stock_alerts",
			Desc:        "Check alerts for one stock, keeping only messages that mention it",
			ParamsOneOf: tickerParam("Ticker symbol to check"),
		},
		func(ctx context.Context, input models.TickerInput) (*models.AlertsResponse, error) {
			return b.CheckStockAlerts(ctx, input.Ticker), nil
		},
	)
}

func NewSingleStockAlertTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "single_stock_alert",
			Desc:        "Check alerts for a specific stock only",
			ParamsOneOf: tickerParam("Ticker symbol to check"),
		},
		func(ctx context.Context, input models.TickerInput) (*models.AlertsResponse, error) {
			return b.SingleStockAlert(ctx, input.Ticker), nil
		},
	)
}

func NewSendStockAlertTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "send_stock_alert",
			Desc:        "Evaluate trading opportunities for a stock and forward them to Telegram",
			ParamsOneOf: tickerParam("Ticker symbol to evaluate"),
		},
		func(ctx context.Context, input models.TickerInput) (*models.AlertsResponse, error) {
			return b.SendStockAlert(ctx, input.Ticker), nil
		},
	)
}

func NewTechAlertsTool(b Backend) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "tech_alerts",
			Desc:        "Evaluate the tech stock watch thresholds and forward any triggered alerts",
			ParamsOneOf: noParams(),
		},
		func(ctx context.Context, _ models.EmptyInput) (*models.AlertsResponse, error) {
			return b.TechAlerts(ctx), nil
		},
	)
}
