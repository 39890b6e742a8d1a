package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterProvider talks to an OpenAI-compatible chat completion API (OpenRouter by default)
type OpenRouterProvider struct {
	client *openai.Client
}

// NewOpenRouterProvider creates a provider for the API at baseURL
func NewOpenRouterProvider(apiKey, baseURL string) *OpenRouterProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenRouterProvider{client: openai.NewClientWithConfig(cfg)}
}

// Generate sends the prompt as a single user message and returns the first choice
func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("provider error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
