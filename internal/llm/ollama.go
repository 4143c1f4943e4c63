package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "mistral"
)

// Ollama calls the local Ollama /api/generate endpoint without streaming.
type Ollama struct {
	client *resty.Client
	model  string
}

type Option func(*Ollama)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) Option {
	return func(o *Ollama) {
		if url != "" {
			o.client.SetBaseURL(strings.TrimSuffix(url, "/"))
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *Ollama) {
		if timeout > 0 {
			o.client.SetTimeout(timeout)
		}
	}
}

// WithModel sets the model name
func WithModel(model string) Option {
	return func(o *Ollama) {
		if model != "" {
			o.model = model
		}
	}
}

func NewOllama(opts ...Option) *Ollama {
	client := resty.New()
	client.SetBaseURL(defaultOllamaURL)
	client.SetTimeout(60 * time.Second)

	o := &Ollama{client: client, model: defaultOllamaModel}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{Model: o.model, Prompt: prompt, Stream: false}).
		Post("/api/generate")
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("ollama generate: %w", ErrTimeout)
		}
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("ollama generate: %w: %v", ErrMalformedResponse, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama generate: %s", out.Error)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama generate: HTTP error %d", resp.StatusCode())
	}
	if out.Response == "" {
		return "", ErrEmptyResponse
	}
	return out.Response, nil
}
