package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaCompany is the company name routed to a local Ollama server
const OllamaCompany = "ollama"

// OllamaProvider runs prompts on a local Ollama server. Only the model name is sent,
// the company prefix used by hosted providers is meaningless to Ollama.
type OllamaProvider struct {
	client *api.Client
}

// NewOllamaProvider creates a provider for the Ollama server at host
func NewOllamaProvider(host string, httpClient *http.Client) (*OllamaProvider, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaProvider{client: api.NewClient(base, httpClient)}, nil
}

// Generate runs a non-streaming generate request
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (string, error) {
	stream := false
	var out strings.Builder

	err := p.client.Generate(ctx, &api.GenerateRequest{
		Model:  req.ModelName,
		Prompt: req.Prompt,
		Stream: &stream,
	}, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}
	return out.String(), nil
}
