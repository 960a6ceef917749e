// Package llm abstracts the chat completion backend.
package llm

import (
	"context"
	"fmt"

	"github.com/contoso-labs/handbook-assistant/config"
)

// Message is one entry of the prompt transcript sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the assistant reply plus usage when the backend reports it.
type Response struct {
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Provider produces chat completions.
type Provider interface {
	ChatCompletion(ctx context.Context, messages []Message) (*Response, error)
	GetProviderType() string
}

func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
}
