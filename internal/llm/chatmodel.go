package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const summaryMaxTokens = 1024

// ChatModelGenerator adapts an eino chat model to Generator.
type ChatModelGenerator struct {
	model model.BaseChatModel
}

func NewChatModelGenerator(cm model.BaseChatModel) *ChatModelGenerator {
	return &ChatModelGenerator{model: cm}
}

func NewOpenAIGenerator(ctx context.Context, apiKey, baseURL, modelName string) (*ChatModelGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not configured")
	}
	maxTokens := summaryMaxTokens
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return NewChatModelGenerator(cm), nil
}

func NewDeepSeekGenerator(ctx context.Context, apiKey, modelName string) (*ChatModelGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("DEEPSEEK_API_KEY is not configured")
	}
	cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: summaryMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create deepseek chat model: %w", err)
	}
	return NewChatModelGenerator(cm), nil
}

func (g *ChatModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("chat model generate: %w", ErrTimeout)
		}
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if msg == nil || msg.Content == "" {
		return "", ErrEmptyResponse
	}
	return msg.Content, nil
}
