package diagram

import (
	"context"
	"fmt"

	"github.com/skillsenselab/voiceboard/internal/llm"
	"github.com/skillsenselab/voiceboard/internal/logger"
)

// Agent derives diagram actions and suggestions from transcripts by driving
// a language-model chat endpoint. Each call is attempted exactly once.
type Agent struct {
	llm llm.Provider
	log *logger.Logger
}

// NewAgent creates an Agent backed by the given LLM provider.
func NewAgent(p llm.Provider, log *logger.Logger) *Agent {
	return &Agent{
		llm: p,
		log: log.WithComponent("diagram-agent"),
	}
}

// DiagramActions sends the transcript to the model with the diagram-control
// prompt and returns the normalized action list. Any API or decode failure
// propagates; the caller decides whether to degrade to a message-only record.
func (a *Agent) DiagramActions(ctx context.Context, transcript string) ([]Action, error) {
	resp, err := a.llm.CompleteStructured(ctx, llm.CompletionRequest{
		SystemPrompt: diagramAgentPrompt,
		Messages:     []llm.Message{{Role: "user", Content: transcript}},
	})
	if err != nil {
		return nil, fmt.Errorf("diagram: action generation failed: %w", err)
	}

	actions, err := NormalizeActions(resp.Content)
	if err != nil {
		return nil, err
	}

	a.log.Debug("Derived diagram actions", map[string]interface{}{
		"count": len(actions),
		"model": resp.Model,
	})
	return actions, nil
}

// Suggestions sends the optional context to the model with the suggestions
// prompt and returns a list of free-text suggestions. This path never fails:
// any anomaly degrades to an empty list with a warning in the logs.
func (a *Agent) Suggestions(ctx context.Context, userContext string) []string {
	if userContext == "" {
		userContext = defaultSuggestionContext
	}

	resp, err := a.llm.CompleteStructured(ctx, llm.CompletionRequest{
		SystemPrompt: suggestionsPrompt,
		Messages:     []llm.Message{{Role: "user", Content: userContext}},
	})
	if err != nil {
		a.log.Warn("Suggestion generation failed, returning empty list", logger.ErrorFields("suggestions", err))
		return []string{}
	}

	return NormalizeSuggestions(resp.Content)
}
