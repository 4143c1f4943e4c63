package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dyike/FinSight/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Background(lipgloss.Color("#1F2937")).
		Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F59E0B")).
		Padding(0, 1).
		Width(80)

	positiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	negativeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	neutralStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444"))
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func sentimentStyle(s models.Sentiment) lipgloss.Style {
	switch s {
	case models.SentimentPositive:
		return positiveStyle
	case models.SentimentNegative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

func changeStyle(change string) lipgloss.Style {
	switch {
	case strings.HasPrefix(change, "+"):
		return positiveStyle
	case strings.HasPrefix(change, "-"):
		return negativeStyle
	default:
		return neutralStyle
	}
}

func renderContext(w io.Writer, resp *models.ContextResponse) {
	fmt.Fprintln(w, titleStyle.Render("📰 "+resp.Query))
	if resp.Error != "" {
		fmt.Fprintln(w, errorStyle.Render("❌ "+resp.Error))
	}
	fmt.Fprintf(w, "Tickers:  %s\n", strings.Join(resp.Tickers, ", "))
	fmt.Fprintf(w, "Keywords: %s\n\n", strings.Join(resp.Keywords, ", "))

	for i, s := range resp.Context {
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, s.Title, sentimentStyle(s.Sentiment).Render(string(s.Sentiment)))
		fmt.Fprintf(w, "   %s\n\n", s.Summary)
	}
	fmt.Fprintln(w, panelStyle.Render(strings.TrimRight(resp.FinalPrompt, "\n")))
}

func renderWrap(w io.Writer, wrap *models.MarketWrap) {
	fmt.Fprintln(w, titleStyle.Render("🌍 Market Wrap "+wrap.Timestamp))

	fmt.Fprintln(w, sectionStyle.Render("Indices"))
	for _, idx := range wrap.Indices {
		if idx.Error != "" {
			fmt.Fprintf(w, "  %-22s %s\n", idx.Name, errorStyle.Render(idx.Error))
			continue
		}
		fmt.Fprintf(w, "  %-22s %12s  %s\n", idx.Name, idx.Price,
			changeStyle(idx.Change).Render(idx.Change+" ("+idx.Percent+")"))
	}

	renderMovers(w, "Top Gainers", wrap.TopGainers)
	renderMovers(w, "Top Losers", wrap.TopLosers)

	fmt.Fprintln(w, sectionStyle.Render("Headlines"))
	for _, h := range wrap.NewsHeadlines {
		if h.Error != "" {
			fmt.Fprintln(w, "  "+errorStyle.Render(h.Error))
			continue
		}
		fmt.Fprintf(w, "  • %s\n    %s\n", h.Title, neutralStyle.Render(h.Link))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, panelStyle.Render(wrap.Summary))
}

func renderMovers(w io.Writer, title string, movers []models.Mover) {
	fmt.Fprintln(w, sectionStyle.Render(title))
	if len(movers) == 0 {
		fmt.Fprintln(w, "  "+neutralStyle.Render("none"))
		return
	}
	for _, m := range movers {
		fmt.Fprintf(w, "  %-6s %10s  %s\n", m.Ticker, m.Price, changeStyle(m.Change).Render(m.Change))
	}
}

func renderWatchlist(w io.Writer, resp *models.WatchlistResponse) {
	if resp.Error != "" {
		fmt.Fprintln(w, errorStyle.Render("❌ "+resp.Error))
		return
	}
	if len(resp.Tickers) == 0 {
		fmt.Fprintln(w, neutralStyle.Render("Watchlist is empty"))
		return
	}
	fmt.Fprintln(w, sectionStyle.Render("📋 Watchlist"))
	for _, t := range resp.Tickers {
		fmt.Fprintf(w, "  • %s\n", t)
	}
}

func renderAlerts(w io.Writer, resp *models.AlertsResponse) {
	if len(resp.Alerts) == 0 {
		fmt.Fprintln(w, neutralStyle.Render("No alerts"))
		return
	}
	for _, a := range resp.Alerts {
		fmt.Fprintln(w, panelStyle.Render(a))
	}
}
