package cli

import (
	"context"

	"github.com/dyike/FinSight/internal/mcpserver"
	"github.com/dyike/FinSight/internal/service"
	"github.com/dyike/FinSight/internal/tools"
)

const serverName = "Financial-MCP-Server"

func newMCPServer(ctx context.Context, svc *service.Service) (*mcpserver.Server, error) {
	server := mcpserver.New(serverName, Version)
	if err := server.AddTools(ctx, tools.All(svc)...); err != nil {
		return nil, err
	}
	server.AddResource("financial://market-summary", "Market Summary",
		"Live global market snapshot",
		func(ctx context.Context) (any, error) { return svc.MarketSummary(ctx), nil })
	server.AddResource("portfolio://data", "Portfolio",
		"Tickers on the watchlist",
		func(ctx context.Context) (any, error) { return svc.GetPortfolio(ctx), nil })
	return server, nil
}
