package llm

import (
	"context"

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

// CompletionClient sends chat-style requests to the configured AI backend.
// Implementations classify every failure into a types.ErrorCode so callers
// never inspect raw provider text.
type CompletionClient interface {
	// Chat sends the conversation and returns the assistant's text.
	Chat(ctx context.Context, messages []models.Message, cfg types.ServiceConfig) (string, error)

	// Validate performs a minimal one-message round trip as a connectivity
	// probe. The underlying error is logged, never propagated.
	Validate(ctx context.Context, cfg types.ServiceConfig) bool
}
