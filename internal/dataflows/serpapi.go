package dataflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dyike/FinSight/internal/apperr"
	"github.com/dyike/FinSight/internal/models"
	"github.com/go-resty/resty/v2"
)

// SerpAPIClient searches Google News through SerpAPI
type SerpAPIClient struct {
	client *resty.Client
	apiKey string
}

// NewSerpAPIClient creates a new SerpAPI client
func NewSerpAPIClient(baseURL, apiKey string) *SerpAPIClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)

	return &SerpAPIClient{
		client: client,
		apiKey: apiKey,
	}
}

type serpAPIResponse struct {
	Error       string           `json:"error"`
	NewsResults []serpNewsResult `json:"news_results"`
}

type serpNewsResult struct {
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	Link    string     `json:"link"`
	Source  serpSource `json:"source"`
	Date    string     `json:"date"`
}

// serpSource accepts either "Reuters" or {"name": "Reuters"}.
type serpSource string

func (s *serpSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = serpSource(name)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = serpSource(obj.Name)
	return nil
}

// SearchNews issues one news-vertical search and maps up to maxResults hits.
func (c *SerpAPIClient) SearchNews(ctx context.Context, query string, tickers []string, maxResults int) ([]models.Article, error) {
	const op = "serpapi.search"
	if c.apiKey == "" {
		return nil, apperr.Fetch(op, errors.New("SERPAPI_API_KEY is not configured"))
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        buildSearchQuery(query, tickers),
			"location": "United States",
			"hl":       "en",
			"gl":       "us",
			"api_key":  c.apiKey,
			"tbm":      "nws",
		}).
		Get("/search.json")
	if err != nil {
		return nil, apperr.Fetch(op, fmt.Errorf("request failed: %w", err))
	}

	var payload serpAPIResponse
	decodeErr := json.Unmarshal(resp.Body(), &payload)
	if decodeErr == nil && payload.Error != "" {
		return nil, apperr.Fetch(op, errors.New(payload.Error))
	}
	if resp.IsError() {
		return nil, apperr.Fetch(op, fmt.Errorf("HTTP error %d", resp.StatusCode()))
	}
	if decodeErr != nil {
		return nil, apperr.Fetch(op, fmt.Errorf("failed to parse response: %w", decodeErr))
	}

	results := payload.NewsResults
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	articles := make([]models.Article, 0, len(results))
	for _, item := range results {
		content := item.Snippet
		if content == "" {
			content = item.Title
		}
		articles = append(articles, models.Article{
			Title:   item.Title,
			Content: content,
			Link:    item.Link,
			Source:  string(item.Source),
			Date:    item.Date,
		})
	}
	return articles, nil
}
