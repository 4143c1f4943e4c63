package models

// Sentiment is the coarse market-impact label attached to a summary.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// Article is a normalized news search result.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

// Summary is the model's sentiment-tagged digest of one Article.
type Summary struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
}

// ParsedQuery holds the entities found in a free-text query.
type ParsedQuery struct {
	Tickers  []string `json:"tickers"`
	Keywords []string `json:"keywords"`
}

// ContextResponse is the payload of the financial_context operation.
type ContextResponse struct {
	Error       string    `json:"error,omitempty"`
	Query       string    `json:"query"`
	Tickers     []string  `json:"tickers"`
	Keywords    []string  `json:"keywords"`
	Context     []Summary `json:"context"`
	FinalPrompt string    `json:"final_prompt"`
}

type ContextInput struct {
	Query string `json:"query"`
}
