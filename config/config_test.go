package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigWithRoot(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfigWithRoot(dir)

	if cfg.PortfolioFile != filepath.Join(dir, "data", "user_portfolio.json") {
		t.Fatalf("unexpected portfolio file %s", cfg.PortfolioFile)
	}
	if cfg.NewsMaxResults != 5 {
		t.Fatalf("expected 5 news results, got %d", cfg.NewsMaxResults)
	}
	if cfg.SummaryTimeout() != 60*time.Second {
		t.Fatalf("expected 60s summary timeout, got %s", cfg.SummaryTimeout())
	}
	if cfg.QuoteCacheTTL() != 0 {
		t.Fatalf("quote cache should be off by default, got %s", cfg.QuoteCacheTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("SERPAPI_API_KEY", "serp-key")
	t.Setenv("OLLAMA_MODEL", "llama3")
	t.Setenv("SUMMARIZER_WORKERS", "4")
	t.Setenv("QUOTE_PROVIDER", "LONGPORT")
	t.Setenv("FINSIGHT_DEBUG", "true")
	t.Setenv("NEWS_MAX_RESULTS", "not-a-number")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.loadFromEnv()

	if cfg.SerpAPIKey != "serp-key" {
		t.Errorf("SerpAPIKey = %q", cfg.SerpAPIKey)
	}
	if cfg.OllamaModel != "llama3" {
		t.Errorf("OllamaModel = %q", cfg.OllamaModel)
	}
	if cfg.SummarizerWorkers != 4 {
		t.Errorf("SummarizerWorkers = %d", cfg.SummarizerWorkers)
	}
	if cfg.QuoteProvider != QuoteProviderLongport {
		t.Errorf("QuoteProvider = %q", cfg.QuoteProvider)
	}
	if !cfg.Debug {
		t.Error("Debug should be enabled")
	}
	if cfg.NewsMaxResults != 5 {
		t.Errorf("invalid integer should keep default, got %d", cfg.NewsMaxResults)
	}
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"news", func(c *Config) { c.NewsProvider = "bing" }},
		{"llm", func(c *Config) { c.LLMProvider = "gemini" }},
		{"quotes", func(c *Config) { c.QuoteProvider = "iex" }},
		{"workers", func(c *Config) { c.SummarizerWorkers = 0 }},
		{"portfolio", func(c *Config) { c.PortfolioFile = " " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfigWithRoot(t.TempDir())
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfigWithRoot(dir)
	cfg.PortfolioFile = filepath.Join(dir, "nested", "state", "portfolio.json")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "state")); err != nil {
		t.Fatalf("portfolio dir not created: %v", err)
	}
}
