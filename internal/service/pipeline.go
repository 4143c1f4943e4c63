package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/dyike/FinSight/internal/dataflows"
	"github.com/dyike/FinSight/internal/intent"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
	"github.com/dyike/FinSight/internal/prompts"
	"github.com/dyike/FinSight/internal/summarizer"
)

const noMarketData = "No recent market data found for the query."

// contextState flows through every step of the financial context chain.
type contextState struct {
	query     string
	parsed    models.ParsedQuery
	articles  []models.Article
	fetchErr  error
	summaries []models.Summary
	prompt    string
}

// newContextChain runs extract → fetch → summarize → prompt → respond. Once a
// fetch fails or comes back empty the summarize and prompt steps pass the
// state through untouched.
func newContextChain(ctx context.Context, news dataflows.NewsSource, maxResults int, sum *summarizer.Summarizer) (compose.Runnable[string, *models.ContextResponse], error) {
	extract := func(ctx context.Context, query string) (*contextState, error) {
		st := &contextState{query: query, parsed: intent.ExtractFinancialEntities(query)}
		logger.L().WithField("tickers", st.parsed.Tickers).WithField("keywords", st.parsed.Keywords).Debug("parsed entities")
		return st, nil
	}

	fetch := func(ctx context.Context, st *contextState) (*contextState, error) {
		if news == nil {
			st.fetchErr = fmt.Errorf("no news source configured")
			return st, nil
		}
		st.articles, st.fetchErr = news.SearchNews(ctx, st.query, st.parsed.Tickers, maxResults)
		if st.fetchErr != nil {
			logger.L().WithError(st.fetchErr).Error("error fetching articles")
		} else {
			logger.L().Debugf("fetched %d articles", len(st.articles))
		}
		return st, nil
	}

	summarize := func(ctx context.Context, st *contextState) (*contextState, error) {
		if !st.hasArticles() {
			return st, nil
		}
		st.summaries = sum.SummarizeArticles(ctx, st.articles)
		return st, nil
	}

	prompt := func(ctx context.Context, st *contextState) (*contextState, error) {
		if !st.hasArticles() {
			return st, nil
		}
		st.prompt = prompts.BuildFinalPrompt(st.query, st.summaries)
		return st, nil
	}

	respond := func(ctx context.Context, st *contextState) (*models.ContextResponse, error) {
		resp := &models.ContextResponse{
			Query:    st.query,
			Tickers:  st.parsed.Tickers,
			Keywords: st.parsed.Keywords,
			Context:  []models.Summary{},
		}
		switch {
		case st.fetchErr != nil:
			resp.Error = fmt.Sprintf("Failed to fetch articles: %v", st.fetchErr)
			resp.FinalPrompt = fmt.Sprintf("Error fetching market data: %v", st.fetchErr)
		case len(st.articles) == 0:
			logger.L().Warn("no articles found")
			resp.FinalPrompt = noMarketData
		default:
			resp.Context = st.summaries
			resp.FinalPrompt = st.prompt
		}
		return resp, nil
	}

	chain := compose.NewChain[string, *models.ContextResponse]()
	chain.
		AppendLambda(compose.InvokableLambda(extract)).
		AppendLambda(compose.InvokableLambda(fetch)).
		AppendLambda(compose.InvokableLambda(summarize)).
		AppendLambda(compose.InvokableLambda(prompt)).
		AppendLambda(compose.InvokableLambda(respond))

	return chain.Compile(ctx, compose.WithGraphName("financial_context"))
}

func (st *contextState) hasArticles() bool {
	return st.fetchErr == nil && len(st.articles) > 0
}
