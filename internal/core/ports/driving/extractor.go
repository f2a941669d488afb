package driving

import "context"

// Extractor runs the full extraction pipeline over a file or directory.
type Extractor interface {
	// Extract processes inputPath and writes one output document.
	Extract(ctx context.Context, inputPath string) (*RunSummary, error)
}

// RunSummary reports what an extraction run did.
type RunSummary struct {
	// RunID uniquely identifies the run.
	RunID string

	// Files is the number of documents processed.
	Files int

	// FilesFailed is the number of documents skipped due to read errors.
	FilesFailed int

	// Tables is the number of significant tables found across all files.
	Tables int

	// TablesPassed is the number of tables that produced a validated record.
	TablesPassed int

	// TablesFailed is the number of tables that ended in a failure record.
	TablesFailed int

	// Resumed indicates the run replayed journaled results from an
	// earlier interrupted run.
	Resumed bool

	// OutputPath is where the final document was written.
	OutputPath string
}
