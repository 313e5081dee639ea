// Package llm defines the language-model provider interface and common types.
package llm

import (
	"context"

	"github.com/skillsenselab/voiceboard/internal/provider"
)

// Provider is the interface that LLM backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// CompleteStructured sends a completion request expecting a JSON-shaped
	// reply ("json mode" on providers that support it).
	CompleteStructured(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
