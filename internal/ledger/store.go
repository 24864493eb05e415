package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const entryColumns = "source_dir, release_id, title, score, strategy, rule, status, error, run_id, updated_at"

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts or replaces the entry for e.SourceDir.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.SourceDir) == "" {
		return errors.New("ledger entry requires a source dir")
	}
	if _, ok := ParseStatus(string(e.Status)); !ok {
		return fmt.Errorf("ledger entry has invalid status %q", e.Status)
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	return s.execWithoutResultRetry(ctx,
		`INSERT INTO matches (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(source_dir) DO UPDATE SET
            release_id = excluded.release_id,
            title = excluded.title,
            score = excluded.score,
            strategy = excluded.strategy,
            rule = excluded.rule,
            status = excluded.status,
            error = excluded.error,
            run_id = excluded.run_id,
            updated_at = excluded.updated_at`,
		e.SourceDir,
		nullableInt(e.ReleaseID),
		nullableString(e.Title),
		e.Score,
		nullableString(e.Strategy),
		nullableString(e.Rule),
		string(e.Status),
		nullableString(e.Error),
		nullableString(e.RunID),
		e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
}

// Lookup returns the entry for dir, or nil when none was recorded.
func (s *Store) Lookup(ctx context.Context, dir string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+entryColumns+" FROM matches WHERE source_dir = ?", dir)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", dir, err)
	}
	return entry, nil
}

// List returns entries ordered by source dir, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]Entry, error) {
	query := "SELECT " + entryColumns + " FROM matches"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY source_dir"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Counts returns the number of entries per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), "SELECT status, COUNT(1) FROM matches GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = n
	}
	return counts, rows.Err()
}

// Remove deletes the entry for dir and reports whether one existed.
func (s *Store) Remove(ctx context.Context, dir string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM matches WHERE source_dir = ?", dir)
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", dir, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Clear deletes every entry, or only those with the given statuses, and
// returns the number removed.
func (s *Store) Clear(ctx context.Context, statuses ...Status) (int64, error) {
	query := "DELETE FROM matches"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ",") + ")"
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}
