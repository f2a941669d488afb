// Package jsonfile persists extraction results as a single JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.ResultSink = (*Sink)(nil)

// DefaultDir is the output directory used when none is configured.
const DefaultDir = "output"

// directoryOutputName is the document name for directory-input runs.
const directoryOutputName = "final_output.json"

// indent is the output indentation. Four spaces, matching the diff-friendly
// layout downstream consumers expect.
const indent = "    "

// Sink writes all FileRecords of a run to one JSON file.
type Sink struct {
	dir      string
	filename string
}

// New creates a sink for the given input. Directory inputs produce
// final_output.json; single-file inputs produce <base>_extracted.json.
// If dir is empty, DefaultDir is used.
func New(dir, inputPath string, inputIsDir bool) *Sink {
	if dir == "" {
		dir = DefaultDir
	}

	filename := directoryOutputName
	if !inputIsDir {
		base := filepath.Base(inputPath)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		filename = base + "_extracted.json"
	}

	return &Sink{dir: dir, filename: filename}
}

// Write serialises the records with 4-space indentation and returns the
// output path. A run with no records still writes an empty JSON array.
func (s *Sink) Write(_ context.Context, records []domain.FileRecord) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	if records == nil {
		records = []domain.FileRecord{}
	}

	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}

	path := filepath.Join(s.dir, s.filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}
