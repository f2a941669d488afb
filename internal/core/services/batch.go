package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driving"
	"github.com/custodia-labs/fintab-cli/internal/logger"
)

// Ensure BatchExtractor implements the interface.
var _ driving.Extractor = (*BatchExtractor)(nil)

// DefaultExtensions are the filing extensions processed when scanning a
// directory.
var DefaultExtensions = []string{".txt", ".htm", ".html"}

// BatchOptions configures optional batch behaviour.
type BatchOptions struct {
	// Checkpoints journals per-table results. Optional.
	Checkpoints driven.CheckpointStore

	// Extensions overrides DefaultExtensions for directory scans.
	Extensions []string

	// Resume replays journaled results from the newest incomplete run
	// for the same input path. Requires Checkpoints.
	Resume bool
}

// BatchExtractor drives the full pipeline over a file or directory:
// locate tables, run one extraction session per table, accumulate
// per-file results, and write the output document exactly once at the end.
// Files and tables are processed sequentially, in sorted order.
type BatchExtractor struct {
	locator     driven.TableLocator
	session     *Session
	sink        driven.ResultSink
	checkpoints driven.CheckpointStore
	extensions  []string
	resume      bool
}

// NewBatchExtractor creates the batch extraction service.
func NewBatchExtractor(locator driven.TableLocator, session *Session, sink driven.ResultSink, opts BatchOptions) *BatchExtractor {
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &BatchExtractor{
		locator:     locator,
		session:     session,
		sink:        sink,
		checkpoints: opts.Checkpoints,
		extensions:  extensions,
		resume:      opts.Resume,
	}
}

// Extract processes inputPath and writes one output document.
// A file that cannot be read is logged and skipped; it never aborts the run.
func (b *BatchExtractor) Extract(ctx context.Context, inputPath string) (*driving.RunSummary, error) {
	files, err := b.collectFiles(inputPath)
	if err != nil {
		return nil, err
	}

	summary := &driving.RunSummary{RunID: uuid.NewString()}
	if err := b.prepareRun(ctx, inputPath, summary); err != nil {
		return nil, err
	}

	var results []domain.FileRecord
	for _, path := range files {
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			summary.FilesFailed++
			continue
		}

		fragments, err := b.locator.Locate(string(data), name)
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			summary.FilesFailed++
			continue
		}

		logger.Info("Processing %s: %d significant tables", name, len(fragments))
		record := domain.FileRecord{Filename: name, ExtractedTables: make([]domain.Record, 0, len(fragments))}
		for _, frag := range fragments {
			rec := b.extractTable(ctx, summary, name, frag)
			record.ExtractedTables = append(record.ExtractedTables, rec)

			summary.Tables++
			if rec.Failed() {
				summary.TablesFailed++
			} else {
				summary.TablesPassed++
			}
		}

		results = append(results, record)
		summary.Files++
	}

	outputPath, err := b.sink.Write(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	summary.OutputPath = outputPath

	if b.checkpoints != nil {
		if err := b.checkpoints.CompleteRun(ctx, summary.RunID); err != nil {
			logger.Warn("Failed to complete checkpoint run: %v", err)
		}
	}

	return summary, nil
}

// extractTable runs one session, consulting and feeding the checkpoint
// journal when one is configured.
func (b *BatchExtractor) extractTable(ctx context.Context, summary *driving.RunSummary, name string, frag domain.TableFragment) domain.Record {
	if b.checkpoints != nil && summary.Resumed {
		rec, err := b.checkpoints.LookupResult(ctx, summary.RunID, name, frag.Index)
		if err == nil {
			logger.Debug("Replaying journaled result for %s table %d", name, frag.Index)
			return rec
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Checkpoint lookup failed for %s table %d: %v", name, frag.Index, err)
		}
	}

	rec := b.session.Run(ctx, frag)

	if b.checkpoints != nil {
		if err := b.checkpoints.SaveResult(ctx, summary.RunID, name, frag.Index, rec); err != nil {
			logger.Warn("Checkpoint save failed for %s table %d: %v", name, frag.Index, err)
		}
	}
	return rec
}

// prepareRun registers the run with the checkpoint journal, adopting the
// newest incomplete run for the same input when resuming.
func (b *BatchExtractor) prepareRun(ctx context.Context, inputPath string, summary *driving.RunSummary) error {
	if b.checkpoints == nil {
		return nil
	}

	if b.resume {
		runID, err := b.checkpoints.FindIncompleteRun(ctx, inputPath)
		switch {
		case err == nil:
			logger.Info("Resuming run %s", runID)
			summary.RunID = runID
			summary.Resumed = true
			return nil
		case errors.Is(err, domain.ErrNotFound):
			logger.Info("No incomplete run found for %s, starting fresh", inputPath)
		default:
			return fmt.Errorf("find incomplete run: %w", err)
		}
	}

	if err := b.checkpoints.StartRun(ctx, summary.RunID, inputPath); err != nil {
		return fmt.Errorf("start checkpoint run: %w", err)
	}
	return nil
}

// collectFiles resolves the input path into a sorted list of filings.
func (b *BatchExtractor) collectFiles(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return []string{inputPath}, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if b.matchesExtension(entry.Name()) {
			files = append(files, filepath.Join(inputPath, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (b *BatchExtractor) matchesExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range b.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
