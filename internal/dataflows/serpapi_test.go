package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dyike/FinSight/internal/apperr"
	"github.com/go-playground/assert/v2"
)

func TestSerpAPISearchNews_MapsResults(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"news_results":[
			{"title":"Apple beats","snippet":"Record quarter","link":"https://a","source":"Reuters","date":"1 hour ago"},
			{"title":"Only title","link":"https://b","source":{"name":"Bloomberg"}},
			{"title":"Third","snippet":"x"}
		]}`))
	}))
	defer srv.Close()

	client := NewSerpAPIClient(srv.URL, "key")
	articles, err := client.SearchNews(context.Background(), "earnings", []string{"AAPL", "MSFT"}, 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(articles))
	assert.Equal(t, "earnings AAPL MSFT", gotQuery["q"])
	assert.Equal(t, "United States", gotQuery["location"])
	assert.Equal(t, "en", gotQuery["hl"])
	assert.Equal(t, "us", gotQuery["gl"])
	assert.Equal(t, "nws", gotQuery["tbm"])
	assert.Equal(t, "key", gotQuery["api_key"])

	assert.Equal(t, "Record quarter", articles[0].Content)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "Only title", articles[1].Content)
	assert.Equal(t, "Bloomberg", articles[1].Source)
	assert.Equal(t, "", articles[1].Date)
}

func TestSerpAPISearchNews_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := NewSerpAPIClient(srv.URL, "bad").SearchNews(context.Background(), "market", nil, 5)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, apperr.IsKind(err, apperr.KindFetch))
	assert.Equal(t, "serpapi.search: Invalid API key.", err.Error())
}

func TestSerpAPISearchNews_MissingKey(t *testing.T) {
	_, err := NewSerpAPIClient("http://127.0.0.1:1", "").SearchNews(context.Background(), "market", nil, 5)

	assert.Equal(t, true, apperr.IsKind(err, apperr.KindFetch))
}

func TestSerpAPISearchNews_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search_metadata":{}}`))
	}))
	defer srv.Close()

	articles, err := NewSerpAPIClient(srv.URL, "key").SearchNews(context.Background(), "market", nil, 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(articles))
}
