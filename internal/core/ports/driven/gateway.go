package driven

import (
	"context"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
)

// ModelGateway submits a conversation to a language model and returns the
// extracted record parsed from the model's JSON reply.
//
// Implementations may include:
//   - OpenAI chat completions (JSON mode)
//   - Local inference servers exposing the same wire format
//
// An error return covers both transport failures and unparseable payloads;
// callers treat the two identically and do not retry.
type ModelGateway interface {
	// Extract runs one model call over the full conversation so far.
	Extract(ctx context.Context, conv domain.Conversation) (domain.Record, error)

	// ModelName returns the identifier of the model being used.
	ModelName() string
}
