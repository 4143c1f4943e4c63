package dataflows

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyike/FinSight/internal/apperr"
	"github.com/dyike/FinSight/internal/models"
	"github.com/go-resty/resty/v2"
)

const googleNewsRSSBaseURL = "https://news.google.com"

// GoogleNewsRSSClient reads the public Google News RSS search feed; it needs no API key.
type GoogleNewsRSSClient struct {
	client *resty.Client
}

func NewGoogleNewsRSSClient(baseURL string) *GoogleNewsRSSClient {
	if baseURL == "" {
		baseURL = googleNewsRSSBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; FinSight/1.0)")

	return &GoogleNewsRSSClient{client: client}
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
}

func (c *GoogleNewsRSSClient) SearchNews(ctx context.Context, query string, tickers []string, maxResults int) ([]models.Article, error) {
	const op = "google_rss.search"
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    buildSearchQuery(query, tickers),
			"hl":   "en-US",
			"gl":   "US",
			"ceid": "US:en",
		}).
		Get("/rss/search")
	if err != nil {
		return nil, apperr.Fetch(op, fmt.Errorf("request failed: %w", err))
	}
	if resp.IsError() {
		return nil, apperr.Fetch(op, fmt.Errorf("HTTP error %d", resp.StatusCode()))
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, apperr.Fetch(op, fmt.Errorf("failed to parse feed: %w", err))
	}

	items := feed.Channel.Items
	if len(items) > maxResults {
		items = items[:maxResults]
	}

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		content := htmlToText(item.Description)
		if content == "" {
			content = item.Title
		}
		articles = append(articles, models.Article{
			Title:   strings.TrimSpace(item.Title),
			Content: content,
			Link:    strings.TrimSpace(item.Link),
			Source:  strings.TrimSpace(item.Source),
			Date:    strings.TrimSpace(item.PubDate),
		})
	}
	return articles, nil
}

// htmlToText flattens an HTML fragment into whitespace-normalized text.
func htmlToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
