package driven

import (
	"context"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
)

// ResultSink persists the complete output of an extraction run.
// Write is called exactly once per run, after all files are processed.
type ResultSink interface {
	// Write serialises the records and returns the path they were
	// written to.
	Write(ctx context.Context, records []domain.FileRecord) (string, error)
}
