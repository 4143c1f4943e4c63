// Package summarizer turns articles into sentiment-tagged summaries, one
// generation call per article.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dyike/FinSight/internal/llm"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 60 * time.Second

const promptTemplate = `You are a financial news analyst. Analyze the following article and provide:

1. A detailed summary that includes:
   - Main story/event
   - Key players involved
   - Important numbers or statistics
   - Market implications or potential impact
   - Any relevant context or background
   - Notable quotes or statements

2. The overall market sentiment (MUST be exactly one of: POSITIVE, NEGATIVE, or NEUTRAL)
   - POSITIVE: Good news that could boost market/stock performance
   - NEGATIVE: Bad news that could hurt market/stock performance
   - NEUTRAL: Limited market impact or mixed implications

Format your response exactly as follows:
Summary: [Your detailed summary here in one paragraph]
Sentiment: [POSITIVE/NEGATIVE/NEUTRAL]

News Article:
%s
`

var sentimentMap = map[string]models.Sentiment{
	"POSITIVE": models.SentimentPositive,
	"NEGATIVE": models.SentimentNegative,
	"NEUTRAL":  models.SentimentNeutral,
	"BULLISH":  models.SentimentPositive,
	"BEARISH":  models.SentimentNegative,
	"MIXED":    models.SentimentNeutral,
}

type Summarizer struct {
	gen     llm.Generator
	timeout time.Duration
	workers int
}

type Option func(*Summarizer)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers sets how many articles are summarized at once. 1 keeps the
// calls strictly sequential.
func WithWorkers(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.workers = n
		}
	}
}

func New(gen llm.Generator, opts ...Option) *Summarizer {
	s := &Summarizer{gen: gen, timeout: defaultTimeout, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SummarizeArticles returns exactly one Summary per article, in input order.
// Failures are folded into the affected Summary.
func (s *Summarizer) SummarizeArticles(ctx context.Context, articles []models.Article) []models.Summary {
	summaries := make([]models.Summary, len(articles))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range articles {
		g.Go(func() error {
			summaries[i] = s.summarize(ctx, articles[i])
			return nil
		})
	}
	_ = g.Wait()

	return summaries
}

func (s *Summarizer) summarize(ctx context.Context, article models.Article) models.Summary {
	log := logger.L().WithField("title", article.Title)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(callCtx, BuildPrompt(article.Content))
	if err != nil {
		log.WithError(err).Error("summarization failed")
		return models.Summary{
			Title:     article.Title,
			Summary:   failureText(err),
			Sentiment: models.SentimentNeutral,
		}
	}

	summary, sentiment, ok := ParseResponse(text)
	if !ok {
		log.Warn("missing Summary/Sentiment markers in response")
	}
	return models.Summary{Title: article.Title, Summary: summary, Sentiment: sentiment}
}

func failureText(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "Error: Request timed out"
	case errors.Is(err, llm.ErrMalformedResponse):
		return "Error: Invalid response format"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "Error: Empty response from model"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func BuildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

// ParseResponse splits a "Summary: ... Sentiment: ..." completion. When the
// markers are missing or out of order it returns the trimmed text, NEUTRAL
// and false.
func ParseResponse(text string) (string, models.Sentiment, bool) {
	_, rest, found := strings.Cut(text, "Summary:")
	if found {
		summary, sentiment, ok := strings.Cut(rest, "Sentiment:")
		if ok {
			return strings.TrimSpace(summary), CleanSentiment(sentiment), true
		}
	}
	return strings.TrimSpace(text), models.SentimentNeutral, false
}

// CleanSentiment maps free-form model output onto the three sentiment labels.
// Only the first word is read, so "NEGATIVE outlook overall" is NEGATIVE.
func CleanSentiment(raw string) models.Sentiment {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return models.SentimentNeutral
	}
	word := strings.TrimFunc(fields[0], func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if s, ok := sentimentMap[strings.ToUpper(word)]; ok {
		return s
	}
	return models.SentimentNeutral
}
