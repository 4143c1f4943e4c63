// Package llm wraps the text-generation backends used for article summaries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dyike/FinSight/config"
)

var (
	ErrTimeout           = errors.New("generation timed out")
	ErrMalformedResponse = errors.New("malformed generation response")
	ErrEmptyResponse     = errors.New("empty response from model")
)

// Generator turns a single prompt into a single completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewFromConfig builds the generator selected by cfg.LLMProvider.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOllama, "":
		return NewOllama(
			WithBaseURL(cfg.OllamaHost),
			WithModel(cfg.OllamaModel),
			WithTimeout(cfg.SummaryTimeout()),
		), nil
	case config.LLMProviderOpenAI:
		return NewOpenAIGenerator(ctx, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.LLMProviderDeepSeek:
		return NewDeepSeekGenerator(ctx, cfg.DeepSeekAPIKey, cfg.DeepSeekModel)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
