package driven

import (
	"context"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
)

// CheckpointStore journals per-table results as a run progresses so an
// interrupted run can be resumed without re-extracting completed tables.
// The final output document is written by the ResultSink either way; the
// journal only shortcuts the model calls.
type CheckpointStore interface {
	// StartRun registers a new run for the given input path.
	StartRun(ctx context.Context, runID, inputPath string) error

	// FindIncompleteRun returns the newest run for inputPath that was
	// never completed. Returns domain.ErrNotFound when there is none.
	FindIncompleteRun(ctx context.Context, inputPath string) (string, error)

	// SaveResult journals the result for one table of one file.
	SaveResult(ctx context.Context, runID, filename string, tableIndex int, rec domain.Record) error

	// LookupResult returns a previously journaled result.
	// Returns domain.ErrNotFound when the table was never journaled.
	LookupResult(ctx context.Context, runID, filename string, tableIndex int) (domain.Record, error)

	// CompleteRun marks the run as finished.
	CompleteRun(ctx context.Context, runID string) error

	// Close releases resources.
	Close() error
}
