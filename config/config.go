package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	NewsProviderSerpAPI   = "serpapi"
	NewsProviderGoogleRSS = "google_rss"

	QuoteProviderYahoo    = "yahoo"
	QuoteProviderLongport = "longport"

	LLMProviderOllama   = "ollama"
	LLMProviderOpenAI   = "openai"
	LLMProviderDeepSeek = "deepseek"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	DataDir    string `json:"data_dir"`

	// Persisted state and static rule documents
	PortfolioFile        string `json:"portfolio_file"`
	AlertsConfigPath     string `json:"alerts_config_path"`
	TechAlertsConfigPath string `json:"tech_alerts_config_path"`

	// News search
	NewsProvider   string `json:"news_provider"`
	SerpAPIKey     string `json:"serpapi_api_key"`
	SerpAPIBaseURL string `json:"serpapi_base_url"`
	NewsMaxResults int    `json:"news_max_results"`

	// Text generation
	LLMProvider           string `json:"llm_provider"`
	OllamaHost            string `json:"ollama_host"`
	OllamaModel           string `json:"ollama_model"`
	OpenAIAPIKey          string `json:"openai_api_key"`
	OpenAIBaseURL         string `json:"openai_base_url"`
	OpenAIModel           string `json:"openai_model"`
	DeepSeekAPIKey        string `json:"deepseek_api_key"`
	DeepSeekModel         string `json:"deepseek_model"`
	SummaryTimeoutSeconds int    `json:"summary_timeout_seconds"`
	SummarizerWorkers     int    `json:"summarizer_workers"`

	// Quotes
	QuoteProvider       string  `json:"quote_provider"`
	QuoteRatePerSec     float64 `json:"quote_rate_per_sec"`
	QuoteCacheSeconds   int     `json:"quote_cache_seconds"`
	LongportAppKey      string  `json:"longport_app_key"`
	LongportAppSecret   string  `json:"longport_app_secret"`
	LongportAccessToken string  `json:"longport_access_token"`

	// Notifications
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramUserID   string `json:"telegram_user_id"`
	TelegramBaseURL  string `json:"telegram_base_url"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
	Debug    bool   `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot returns defaults rooted at dir without reading the environment.
func DefaultConfigWithRoot(dir string) *Config {
	return &Config{
		ProjectDir: dir,
		DataDir:    filepath.Join(dir, "data"),

		PortfolioFile:        filepath.Join(dir, "data", "user_portfolio.json"),
		AlertsConfigPath:     filepath.Join(dir, "config", "alerts_config.json"),
		TechAlertsConfigPath: filepath.Join(dir, "config", "tech_alerts_config.json"),

		NewsProvider:   NewsProviderSerpAPI,
		SerpAPIBaseURL: "https://serpapi.com",
		NewsMaxResults: 5,

		LLMProvider:           LLMProviderOllama,
		OllamaHost:            "http://localhost:11434",
		OllamaModel:           "mistral",
		OpenAIModel:           "gpt-4o-mini",
		DeepSeekModel:         "deepseek-chat",
		SummaryTimeoutSeconds: 60,
		SummarizerWorkers:     1,

		QuoteProvider:     QuoteProviderYahoo,
		QuoteRatePerSec:   5,
		QuoteCacheSeconds: 0,

		TelegramBaseURL: "https://api.telegram.org",

		LogLevel: "info",
		LogFile:  filepath.Join(dir, "financial_mcp.log"),
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("PORTFOLIO_FILE"); val != "" {
		c.PortfolioFile = val
	}
	if val := os.Getenv("ALERTS_CONFIG_PATH"); val != "" {
		c.AlertsConfigPath = val
	}
	if val := os.Getenv("TECH_ALERTS_CONFIG_PATH"); val != "" {
		c.TechAlertsConfigPath = val
	}

	if val := os.Getenv("NEWS_PROVIDER"); val != "" {
		c.NewsProvider = strings.ToLower(val)
	}
	if val := os.Getenv("SERPAPI_API_KEY"); val != "" {
		c.SerpAPIKey = val
	}
	if val := os.Getenv("SERPAPI_BASE_URL"); val != "" {
		c.SerpAPIBaseURL = val
	}
	if val := os.Getenv("NEWS_MAX_RESULTS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsMaxResults = v
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("OLLAMA_HOST"); val != "" {
		c.OllamaHost = val
	}
	if val := os.Getenv("OLLAMA_MODEL"); val != "" {
		c.OllamaModel = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		c.OpenAIBaseURL = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		c.OpenAIModel = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_MODEL"); val != "" {
		c.DeepSeekModel = val
	}
	if val := os.Getenv("SUMMARY_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.SummaryTimeoutSeconds = v
		}
	}
	if val := os.Getenv("SUMMARIZER_WORKERS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.SummarizerWorkers = v
		}
	}

	if val := os.Getenv("QUOTE_PROVIDER"); val != "" {
		c.QuoteProvider = strings.ToLower(val)
	}
	if val := os.Getenv("QUOTE_RATE_PER_SEC"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.QuoteRatePerSec = v
		}
	}
	if val := os.Getenv("QUOTE_CACHE_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.QuoteCacheSeconds = v
		}
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.TelegramBotToken = val
	}
	if val := os.Getenv("TELEGRAM_USER_ID"); val != "" {
		c.TelegramUserID = val
	}
	if val := os.Getenv("TELEGRAM_BASE_URL"); val != "" {
		c.TelegramBaseURL = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.LogFile = val
	}
	if val := os.Getenv("FINSIGHT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// QuoteCacheTTL is zero when quote caching is disabled.
func (c *Config) QuoteCacheTTL() time.Duration {
	if c.QuoteCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.QuoteCacheSeconds) * time.Second
}

// SummaryTimeout is the per-article bound on a single generation call.
func (c *Config) SummaryTimeout() time.Duration {
	if c.SummaryTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.SummaryTimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	switch c.NewsProvider {
	case NewsProviderSerpAPI, NewsProviderGoogleRSS:
	default:
		return fmt.Errorf("unsupported news provider %q", c.NewsProvider)
	}
	switch c.LLMProvider {
	case LLMProviderOllama, LLMProviderOpenAI, LLMProviderDeepSeek:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLMProvider)
	}
	switch c.QuoteProvider {
	case QuoteProviderYahoo, QuoteProviderLongport:
	default:
		return fmt.Errorf("unsupported quote provider %q", c.QuoteProvider)
	}
	if c.NewsMaxResults <= 0 {
		return fmt.Errorf("news_max_results must be positive, got %d", c.NewsMaxResults)
	}
	if c.SummarizerWorkers <= 0 {
		return fmt.Errorf("summarizer_workers must be positive, got %d", c.SummarizerWorkers)
	}
	if strings.TrimSpace(c.PortfolioFile) == "" {
		return fmt.Errorf("portfolio_file is required")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.DataDir, filepath.Dir(c.PortfolioFile)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
