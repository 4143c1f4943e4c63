// Package alerts classifies current prices against configured buy/sell
// thresholds and forwards triggered signals to a notifier.
package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
	"github.com/shopspring/decimal"
)

var proximity = decimal.New(1, -2)

type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Evaluator struct {
	rulesPath     string
	techRulesPath string
	quotes        dataflows.QuoteProvider
	notifier      Notifier
}

// NewEvaluator reads rule files on every call so edits apply without a restart.
// notifier may be nil.
func NewEvaluator(rulesPath, techRulesPath string, quotes dataflows.QuoteProvider, notifier Notifier) *Evaluator {
	return &Evaluator{
		rulesPath:     rulesPath,
		techRulesPath: techRulesPath,
		quotes:        quotes,
		notifier:      notifier,
	}
}

// Check evaluates the requested tickers, or every configured ticker when none
// are given. Only the first matching signal per ticker is reported. Unmatched
// and unpriced tickers are silent unless they were requested.
func (e *Evaluator) Check(ctx context.Context, tickers []string) []string {
	log := logger.L()

	rules, err := LoadRules(e.rulesPath)
	if err != nil {
		log.WithError(err).Error("error loading alerts configuration")
	}
	if rules.Len() == 0 {
		log.Error("no alerts configuration loaded")
		return []string{"⚠️ Error: Could not load alerts configuration"}
	}

	requested := normalizeTickers(tickers)
	explicit := len(requested) > 0
	scan := requested
	if !explicit {
		scan = rules.Tickers()
	}

	triggered := []string{}
	for _, ticker := range scan {
		rule, ok := rules.Get(ticker)
		if !ok {
			if explicit {
				triggered = append(triggered, fmt.Sprintf("⚠️ No configuration found for %s", ticker))
			}
			continue
		}

		q, err := e.quotes.GetQuote(ctx, ticker)
		if err != nil {
			log.WithError(err).WithField("ticker", ticker).Error("error checking alerts")
			if explicit {
				triggered = append(triggered, fmt.Sprintf("⚠️ Error checking %s: %v", ticker, err))
			}
			continue
		}
		if q.Price.IsZero() {
			log.WithField("ticker", ticker).Warn("no current price")
			continue
		}
		log.WithField("ticker", ticker).Infof("current price $%s", q.Price)

		msg := firstSignal(ticker, q.Price, rule)
		if msg == "" {
			if !explicit {
				continue
			}
			msg = fmt.Sprintf("ℹ️ %s at $%s - No trading signals triggered", ticker, q.Price)
		}
		if rule.Description != "" {
			msg += "\nNote: " + rule.Description
		}
		triggered = append(triggered, msg)
	}

	if len(triggered) > 0 {
		header := "💰 Trading Signals Alert"
		if explicit {
			header += " for " + strings.Join(requested, ", ")
		}
		e.notify(ctx, header+":\n\n"+strings.Join(triggered, "\n\n"), "trading signals")
	}
	return triggered
}

func firstSignal(ticker string, price decimal.Decimal, rule models.AlertRule) string {
	switch {
	case rule.StrongBuy != nil && price.LessThanOrEqual(dec(*rule.StrongBuy)):
		return fmt.Sprintf("🟢 Strong Buy Signal: %s at $%s\n• Price at/below strong buy level $%s", ticker, price, dec(*rule.StrongBuy))
	case rule.Below != nil && price.LessThan(dec(*rule.Below)):
		return fmt.Sprintf("🟢 Buy Signal: %s at $%s\n• Price below buy threshold $%s", ticker, price, dec(*rule.Below))
	case rule.StrongSell != nil && price.GreaterThanOrEqual(dec(*rule.StrongSell)):
		return fmt.Sprintf("🔴 Strong Sell Signal: %s at $%s\n• Price at/above strong sell level $%s", ticker, price, dec(*rule.StrongSell))
	case rule.Above != nil && price.GreaterThan(dec(*rule.Above)):
		return fmt.Sprintf("🔴 Sell Signal: %s at $%s\n• Price above sell threshold $%s", ticker, price, dec(*rule.Above))
	}
	return ""
}

// Opportunities reports every buy, sell and support/resistance condition met
// by one ticker. It never notifies.
func (e *Evaluator) Opportunities(ctx context.Context, ticker string) []string {
	ticker = dataflows.NormalizeSymbol(ticker)

	rules, err := LoadRules(e.rulesPath)
	if err != nil {
		logger.L().WithError(err).Error("error loading alerts configuration")
	}
	rule, ok := rules.Get(ticker)
	if !ok {
		return []string{fmt.Sprintf("⚠️ No configuration found for %s", ticker)}
	}

	q, err := e.quotes.GetQuote(ctx, ticker)
	if err != nil {
		logger.L().WithError(err).WithField("ticker", ticker).Error("error checking trading opportunities")
		return []string{fmt.Sprintf("⚠️ Error checking %s: %v", ticker, err)}
	}
	price := q.Price
	if price.IsZero() {
		return []string{fmt.Sprintf("⚠️ Could not get current price for %s", ticker)}
	}

	var out []string
	switch {
	case rule.StrongBuy != nil && price.LessThanOrEqual(dec(*rule.StrongBuy)):
		out = append(out,
			fmt.Sprintf("🟢 Strong Buy Signal for %s at $%s", ticker, price),
			fmt.Sprintf("• Price at/below strong buy level $%s", dec(*rule.StrongBuy)))
	case rule.Below != nil && price.LessThanOrEqual(dec(*rule.Below)):
		out = append(out,
			fmt.Sprintf("🟢 Buy Signal for %s at $%s", ticker, price),
			fmt.Sprintf("• Price below buy threshold $%s", dec(*rule.Below)))
	}
	switch {
	case rule.StrongSell != nil && price.GreaterThanOrEqual(dec(*rule.StrongSell)):
		out = append(out,
			fmt.Sprintf("🔴 Strong Sell Signal for %s at $%s", ticker, price),
			fmt.Sprintf("• Price at/above strong sell level $%s", dec(*rule.StrongSell)))
	case rule.Above != nil && price.GreaterThanOrEqual(dec(*rule.Above)):
		out = append(out,
			fmt.Sprintf("🔴 Sell Signal for %s at $%s", ticker, price),
			fmt.Sprintf("• Price above sell threshold $%s", dec(*rule.Above)))
	}
	for _, level := range rule.SupportLevels {
		if near(price, dec(level)) {
			out = append(out, fmt.Sprintf("📊 Near support level $%s (potential buy zone)", dec(level)))
		}
	}
	for _, level := range rule.ResistanceLevels {
		if near(price, dec(level)) {
			out = append(out, fmt.Sprintf("📊 Near resistance level $%s (potential sell zone)", dec(level)))
		}
	}

	if len(out) == 0 {
		return []string{fmt.Sprintf("ℹ️ No immediate trading opportunities for %s at $%s", ticker, price)}
	}
	if rule.Description != "" {
		out = append(out, "\nNote: "+rule.Description)
	}
	return out
}

// SendOpportunities runs Opportunities and forwards the result.
func (e *Evaluator) SendOpportunities(ctx context.Context, ticker string) []string {
	ticker = dataflows.NormalizeSymbol(ticker)
	opportunities := e.Opportunities(ctx, ticker)
	if e.notifier == nil {
		return opportunities
	}

	text := fmt.Sprintf("💰 Trading Opportunities for %s:\n\n", ticker) + strings.Join(opportunities, "\n")
	if err := e.notifier.Send(ctx, text); err != nil {
		logger.L().WithError(err).WithField("ticker", ticker).Error("error sending trading alert")
		return []string{fmt.Sprintf("⚠️ Error: %v", err)}
	}
	return opportunities
}

func (e *Evaluator) notify(ctx context.Context, text, what string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, text); err != nil {
		logger.L().WithError(err).Errorf("error sending %s", what)
		return
	}
	logger.L().Infof("%s sent successfully", what)
}

func near(price, level decimal.Decimal) bool {
	return price.Sub(level).Abs().LessThanOrEqual(level.Mul(proximity))
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if n := dataflows.NormalizeSymbol(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (e *Evaluator) RulePaths() []string {
	return []string{e.rulesPath, e.techRulesPath}
}
