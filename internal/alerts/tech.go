package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyike/FinSight/internal/logger"
)

// TechAlerts evaluates the tech watch document. Every tripped above/below
// threshold produces a message; all of them go out as one digest.
func (e *Evaluator) TechAlerts(ctx context.Context) []string {
	log := logger.L()

	rules, err := LoadRules(e.techRulesPath)
	if err != nil {
		log.WithError(err).Error("error loading tech alerts configuration")
	}
	if rules.Len() == 0 {
		return []string{"⚠️ Error: Could not load tech alerts configuration"}
	}

	triggered := []string{}
	var summary []string
	for _, ticker := range rules.Tickers() {
		rule, _ := rules.Get(ticker)

		q, err := e.quotes.GetQuote(ctx, ticker)
		if err != nil {
			log.WithError(err).WithField("ticker", ticker).Error("error checking tech alerts")
			triggered = append(triggered, fmt.Sprintf("⚠️ Error checking %s: %v", ticker, err))
			continue
		}
		if q.Price.IsZero() {
			log.WithField("ticker", ticker).Warn("could not get price")
			continue
		}

		summary = append(summary, fmt.Sprintf("%s: $%s (%s)", ticker, q.Price, rule.Description))

		if rule.Above != nil && q.Price.GreaterThan(dec(*rule.Above)) {
			triggered = append(triggered, fmt.Sprintf("📈 %s is above $%s ($%s) - %s",
				ticker, dec(*rule.Above), q.Price, rule.Description))
		}
		if rule.Below != nil && q.Price.LessThan(dec(*rule.Below)) {
			triggered = append(triggered, fmt.Sprintf("🔔 Buying Opportunity: %s at $%s\nBelow buy threshold of $%s\nDescription: %s",
				ticker, q.Price, dec(*rule.Below), rule.Description))
		}
	}
	if len(summary) > 0 {
		log.Infof("tech summary: %s", strings.Join(summary, "; "))
	}

	if len(triggered) > 0 {
		e.notify(ctx, "🚨 Tech Stocks Alert Summary:\n\n"+strings.Join(triggered, "\n"), "tech alerts")
	}
	return triggered
}
