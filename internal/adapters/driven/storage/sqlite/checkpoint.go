package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore journals per-table extraction results in SQLite.
type CheckpointStore struct {
	db   *sql.DB
	path string
}

// NewCheckpointStore creates a checkpoint store at the specified data
// directory. If dataDir is empty, defaults to ~/.fintab/data/checkpoints.db.
func NewCheckpointStore(dataDir string) (*CheckpointStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fintab", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "checkpoints.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &CheckpointStore{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *CheckpointStore) Path() string {
	return s.path
}

// StartRun registers a new run for the given input path.
func (s *CheckpointStore) StartRun(ctx context.Context, runID, inputPath string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, input_path, started_at)
		VALUES (?, ?, ?)
	`, runID, inputPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("starting run: %w", err)
	}
	return nil
}

// FindIncompleteRun returns the newest run for inputPath that was never
// completed. Returns domain.ErrNotFound when there is none.
func (s *CheckpointStore) FindIncompleteRun(ctx context.Context, inputPath string) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs
		WHERE input_path = ? AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, inputPath)

	var runID string
	if err := row.Scan(&runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("finding incomplete run: %w", err)
	}
	return runID, nil
}

// SaveResult journals the result for one table of one file.
func (s *CheckpointStore) SaveResult(ctx context.Context, runID, filename string, tableIndex int, rec domain.Record) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO table_results (run_id, filename, table_idx, record, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, filename, table_idx) DO UPDATE SET
			record = excluded.record,
			created_at = excluded.created_at
	`, runID, filename, tableIndex, string(recordJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// LookupResult returns a previously journaled result.
// Returns domain.ErrNotFound when the table was never journaled.
func (s *CheckpointStore) LookupResult(ctx context.Context, runID, filename string, tableIndex int) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT record FROM table_results
		WHERE run_id = ? AND filename = ? AND table_idx = ?
	`, runID, filename, tableIndex)

	var recordJSON string
	if err := row.Scan(&recordJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("looking up result: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}
	return rec, nil
}

// CompleteRun marks the run as finished.
func (s *CheckpointStore) CompleteRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET completed_at = ? WHERE id = ?
	`, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *CheckpointStore) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
