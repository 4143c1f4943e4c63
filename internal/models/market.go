package models

import (
	"bytes"
	"encoding/json"
)

// IndexSnapshot is one index entry in a market wrap. Error is set instead of
// the price fields when the quote could not be fetched.
type IndexSnapshot struct {
	Name    string `json:"-"`
	Price   string `json:"price,omitempty"`
	Change  string `json:"change,omitempty"`
	Percent string `json:"percent,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Indices marshals as a JSON object keyed by index name, keeping slice order.
type Indices []IndexSnapshot

func (ix Indices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, snap := range ix {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(snap.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(snap)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Mover struct {
	Ticker string `json:"ticker"`
	Price  string `json:"price"`
	Change string `json:"change"`
}

type Headline struct {
	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`
	Error string `json:"error,omitempty"`
}

// MarketWrap is a point-in-time snapshot of indices, movers and headlines.
type MarketWrap struct {
	Timestamp     string     `json:"timestamp"`
	Indices       Indices    `json:"indices"`
	TopGainers    []Mover    `json:"top_gainers"`
	TopLosers     []Mover    `json:"top_losers"`
	NewsHeadlines []Headline `json:"news_headlines"`
	Summary       string     `json:"summary"`
}
