// Package llm abstracts the language-model call behind a small interface so
// the rewriting and sourcing steps can be tested with canned responses.
package llm

import (
	"context"
	"fmt"

	"github.com/aktagon/llmkit/anthropic/agents"
)

// Provider is the interface for LLM providers.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsConfigured() bool
}

// AnthropicProvider calls the Anthropic API through llmkit.
type AnthropicProvider struct {
	apiKey string
	model  string
	agent  *agents.ChatAgent
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a provider for the given API key and model.
// An empty key yields an unconfigured provider; Generate will fail.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	p := &AnthropicProvider{apiKey: apiKey, model: model}
	if apiKey == "" {
		return p
	}
	agent, err := agents.New(apiKey)
	if err != nil {
		return p
	}
	p.agent = agent
	return p
}

// IsConfigured reports whether an API key was supplied and the client
// initialized.
func (p *AnthropicProvider) IsConfigured() bool {
	return p.agent != nil
}

// Generate sends a prompt and returns the model's text response.
func (p *AnthropicProvider) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	if p.agent == nil {
		return "", fmt.Errorf("anthropic provider is not configured (missing API key)")
	}

	resp, err := p.agent.Chat(prompt, &agents.ChatOptions{
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	return resp.Text, nil
}
