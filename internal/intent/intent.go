// Package intent pulls ticker candidates and finance keywords out of free text.
package intent

import (
	"regexp"
	"strings"

	"github.com/dyike/FinSight/internal/models"
)

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Vocabulary is the fixed keyword list, in match order.
var Vocabulary = []string{
	"stock", "earnings", "market", "revenue", "forecast",
	"dividend", "split", "SEC", "inflation",
}

// ExtractFinancialEntities never fails. Common uppercase words such as "I" or
// "CEO" are reported as tickers too.
func ExtractFinancialEntities(query string) models.ParsedQuery {
	tickers := tickerPattern.FindAllString(query, -1)
	if tickers == nil {
		tickers = []string{}
	}

	lowered := strings.ToLower(query)
	keywords := []string{}
	for _, word := range Vocabulary {
		if strings.Contains(lowered, strings.ToLower(word)) {
			keywords = append(keywords, word)
		}
	}

	return models.ParsedQuery{Tickers: tickers, Keywords: keywords}
}
