package models

// AlertRule holds the optional price thresholds configured for one ticker.
// Nil thresholds are unset.
type AlertRule struct {
	Ticker           string    `json:"ticker" yaml:"-"`
	Below            *float64  `json:"below,omitempty" yaml:"below"`
	StrongBuy        *float64  `json:"strong_buy,omitempty" yaml:"strong_buy"`
	Above            *float64  `json:"above,omitempty" yaml:"above"`
	StrongSell       *float64  `json:"strong_sell,omitempty" yaml:"strong_sell"`
	SupportLevels    []float64 `json:"support_levels,omitempty" yaml:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels,omitempty" yaml:"resistance_levels"`
	Description      string    `json:"description,omitempty" yaml:"description"`
}

type AlertsResponse struct {
	Alerts []string `json:"alerts"`
}

type TickerInput struct {
	Ticker string `json:"ticker"`
}

// AlertSelectorInput keeps the wire name the assistant runtime already uses.
type AlertSelectorInput struct {
	Selector string `json:"random_string"`
}

// Watchlist is the persisted set of tracked tickers.
type Watchlist struct {
	Tickers []string `json:"tickers"`
}

type WatchlistResponse struct {
	Error   string   `json:"error,omitempty"`
	Tickers []string `json:"tickers"`
}

type EmptyInput struct{}
