package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.^-]+$`)

type menuAction string

const (
	actionContext       menuAction = "📰 Financial context for a question"
	actionWrap          menuAction = "🌍 Market wrap"
	actionWatchlist     menuAction = "📋 Show watchlist"
	actionAdd           menuAction = "➕ Add ticker to watchlist"
	actionRemove        menuAction = "➖ Remove ticker from watchlist"
	actionAlerts        menuAction = "🔔 Check all price alerts"
	actionOpportunities menuAction = "🎯 Trading opportunities for a ticker"
	actionTechAlerts    menuAction = "💻 Tech watchlist alerts"
	actionConfig        menuAction = "⚙️  Show configuration"
	actionExit          menuAction = "👋 Exit"
)

var menuActions = []menuAction{
	actionContext,
	actionWrap,
	actionWatchlist,
	actionAdd,
	actionRemove,
	actionAlerts,
	actionOpportunities,
	actionTechAlerts,
	actionConfig,
	actionExit,
}

func validateTicker(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid input type")
	}
	str = strings.TrimSpace(strings.ToUpper(str))
	if len(str) == 0 {
		return fmt.Errorf("ticker symbol cannot be empty")
	}
	if len(str) > 10 {
		return fmt.Errorf("ticker symbol too long (max 10 characters)")
	}
	if !tickerPattern.MatchString(str) {
		return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
	}
	return nil
}

// PromptForMenuAction asks which operation to run next.
func PromptForMenuAction() (menuAction, error) {
	options := make([]string, len(menuActions))
	for i, a := range menuActions {
		options[i] = string(a)
	}

	var selected string
	prompt := &survey.Select{
		Message:  "What would you like to do?",
		Options:  options,
		PageSize: len(options),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return menuAction(selected), nil
}

// PromptForTicker prompts the user to enter a stock ticker symbol
func PromptForTicker(message string) (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: message,
		Help:    "e.g. AAPL, MSFT, NVDA",
	}
	if err := survey.AskOne(prompt, &ticker, survey.WithValidator(validateTicker)); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(ticker)), nil
}

func PromptForQuery() (string, error) {
	var query string
	prompt := &survey.Input{
		Message: "Ask about the market:",
		Help:    "Tickers in capitals are picked up, e.g. \"What about AAPL earnings?\"",
	}
	err := survey.AskOne(prompt, &query, survey.WithValidator(survey.Required))
	return strings.TrimSpace(query), err
}

func PromptForConfirm(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}
