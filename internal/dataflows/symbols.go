package dataflows

import (
	"fmt"
	"strings"
)

// ValidateSymbol checks if a ticker or index symbol has a usable format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

func buildSearchQuery(query string, tickers []string) string {
	if len(tickers) == 0 {
		return query
	}
	return query + " " + strings.Join(tickers, " ")
}
