package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"convobase/internal/model"
)

// ErrUnsupportedProvider is returned when the configured generation backend
// has no implementation. Callers must treat it as non-recoverable rather
// than falling back to another provider.
var ErrUnsupportedProvider = errors.New("generation provider not supported")

// ChatTurn is one (role, content) pair of the prompt history.
type ChatTurn struct {
	Role    model.Role `json:"role"`
	Content string     `json:"content"`
}

// Usage carries estimator-defined token counts for one generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Generator produces an assistant reply from windowed history, a system
// prompt, and optional retrieval context (empty string means absent).
// Implementations must honor ctx cancellation when they block on I/O.
type Generator interface {
	Generate(ctx context.Context, history []ChatTurn, systemPrompt, contextText string) (string, Usage, error)
}

// NewGenerator resolves the provider selector from configuration. Only the
// dummy reference backend is implemented; anything else fails loudly.
func NewGenerator(provider string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "dummy":
		return &DummyGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}
