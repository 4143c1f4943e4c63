package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/FinSight/internal/models"
	"github.com/dyike/FinSight/internal/service"
)

func showWelcome(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("💹 FinSight v"+Version))
	fmt.Fprintln(w, "Financial news, sentiment summaries, watchlist and price alerts")
	fmt.Fprintln(w)
}

// runInteractiveMode drives the survey menu until the user exits or
// interrupts with Ctrl-C.
func runInteractiveMode(ctx context.Context, a *app) error {
	out := os.Stdout
	showWelcome(out)

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	for {
		action, err := PromptForMenuAction()
		if err != nil {
			return exitOnInterrupt(err)
		}
		if action == actionExit {
			fmt.Fprintln(out, "👋 Thank you for using FinSight!")
			return nil
		}
		if err := runMenuAction(ctx, a, svc, action, out); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			fmt.Fprintln(out, errorStyle.Render("❌ "+err.Error()))
		}
		fmt.Fprintln(out, "\n"+strings.Repeat("─", 60))
	}
}

func exitOnInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}

func runMenuAction(ctx context.Context, a *app, svc *service.Service, action menuAction, out io.Writer) error {
	switch action {
	case actionContext:
		query, err := PromptForQuery()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "🔄 Fetching and summarizing articles...")
		resp := svc.FinancialContext(ctx, query)
		renderContext(out, resp)

	case actionWrap:
		renderWrap(out, svc.MarketSummary(ctx))

	case actionWatchlist:
		renderWatchlist(out, &models.WatchlistResponse{Tickers: svc.GetPortfolio(ctx).Tickers})

	case actionAdd:
		ticker, err := PromptForTicker("Ticker to add:")
		if err != nil {
			return err
		}
		renderWatchlist(out, svc.AddStock(ctx, ticker))

	case actionRemove:
		ticker, err := PromptForTicker("Ticker to remove:")
		if err != nil {
			return err
		}
		renderWatchlist(out, svc.RemoveStock(ctx, ticker))

	case actionAlerts:
		renderAlerts(out, svc.PortfolioAlerts(ctx, "ALL"))

	case actionOpportunities:
		ticker, err := PromptForTicker("Ticker to evaluate:")
		if err != nil {
			return err
		}
		send, err := PromptForConfirm("Forward the result to Telegram?")
		if err != nil {
			return err
		}
		if send {
			renderAlerts(out, svc.SendStockAlert(ctx, ticker))
		} else {
			renderAlerts(out, svc.Opportunities(ctx, ticker))
		}

	case actionTechAlerts:
		renderAlerts(out, svc.TechAlerts(ctx))

	case actionConfig:
		showConfig(out, a.cfg)
	}
	return nil
}
