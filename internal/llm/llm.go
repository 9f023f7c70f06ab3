// Package llm talks to hosted chat models. Callers send one system and one user message
// and get the model's text reply back.
package llm

import (
	"context"
	"fmt"

	"coachloop/internal/config"
)

// Completer is a single-turn, non-streaming chat call.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// New builds the completer selected by cfg.Provider.
func New(cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
