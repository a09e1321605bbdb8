package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kvasirlabs/leadscan/internal/model"
)

// ScrapeDB provides SQLite-based storage for scrape run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. This keeps cross-site queries (list all recent
// runs) trivial and simplifies backup/restore operations.
type ScrapeDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// options configures Open behavior.
type options struct {
	createIfNotExists bool
	enableWAL         bool
}

// Option configures how the history database is opened.
type Option func(*options)

// WithCreateIfNotExists creates the database file and its parent
// directory when they do not exist. Without this option, Open fails if
// the file is missing, which is the right behavior for read-only
// history queries.
func WithCreateIfNotExists() Option {
	return func(o *options) {
		o.createIfNotExists = true
	}
}

// WithWAL enables Write-Ahead Logging for better concurrent read
// performance. Recommended whenever the database is opened for writing.
func WithWAL() Option {
	return func(o *options) {
		o.enableWAL = true
	}
}

// Open opens the run history database at the specified file path.
// By default the file must already exist; pass WithCreateIfNotExists()
// to create it (and its directory) on first use.
func Open(dbPath string, opts ...Option) (*ScrapeDB, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Check if we should create the database or require it to exist
	if !o.createIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no history database at %s: %w", dbPath, ErrDatabaseNotOpen)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// mode=rw prevents creating new files; mode=rwc allows creation.
	var dsn string
	if o.createIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY errors during transactional saves
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScrapeDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if o.enableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScrapeDB) Close() error {
	if sdb == nil || sdb.db == nil {
		return ErrDatabaseNotOpen
	}
	return sdb.db.Close()
}

// Path returns the location of the database file.
func (sdb *ScrapeDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScrapeDB) createTables() error {
	schema := `
	-- One row per scrape run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root_url TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		pages_crawled INTEGER NOT NULL DEFAULT 0,
		pages_skipped INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0,
		maker_count INTEGER NOT NULL DEFAULT 0,
		errors TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root_url ON runs(root_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Extracted decision makers, linked to their run
	CREATE TABLE IF NOT EXISTS decision_makers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		title TEXT,
		email TEXT,
		phone TEXT,
		linkedin TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_makers_run_id ON decision_makers(run_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult stores a completed run and its decision makers in one
// transaction. Either the whole run is recorded or nothing is.
func (sdb *ScrapeDB) SaveResult(ctx context.Context, result *model.Result) error {
	if sdb == nil || sdb.db == nil {
		return ErrDatabaseNotOpen
	}

	errorsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		return fmt.Errorf("failed to serialize errors: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, root_url, started_at, finished_at, pages_crawled, pages_skipped, error_count, maker_count, errors)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		result.RootURL,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
		result.PagesCrawled,
		result.PagesSkipped,
		len(result.Errors),
		len(result.DecisionMakers),
		string(errorsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, person := range result.DecisionMakers {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO decision_makers (run_id, name, title, email, phone, linkedin)
		VALUES (?, ?, ?, ?, ?, ?)
		`,
			result.RunID,
			person.Name,
			person.Title,
			person.Email,
			person.Phone,
			person.LinkedIn,
		)
		if err != nil {
			return fmt.Errorf("failed to insert decision maker: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunSummary contains summary information about a stored run.
// This is used for listing history without loading the full result.
type RunSummary struct {
	// RunID is the unique identifier of the run.
	RunID string

	// RootURL is the site that was scraped.
	RootURL string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// PagesCrawled is the number of successfully processed pages.
	PagesCrawled int

	// PagesSkipped is the number of pages that failed.
	PagesSkipped int

	// ErrorCount is the number of recorded error entries.
	ErrorCount int

	// MakerCount is the number of decision makers found.
	MakerCount int
}

// ListRuns returns stored run summaries, newest first. A non-empty
// rootURL filters to one site; limit <= 0 means no limit.
func (sdb *ScrapeDB) ListRuns(ctx context.Context, rootURL string, limit int) ([]RunSummary, error) {
	if sdb == nil || sdb.db == nil {
		return nil, ErrDatabaseNotOpen
	}

	query := `
	SELECT id, root_url, started_at, finished_at, pages_crawled, pages_skipped, error_count, maker_count
	FROM runs
	`
	args := make([]any, 0, 2)

	if rootURL != "" {
		query += " WHERE root_url = ?"
		args = append(args, rootURL)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var s RunSummary
		var startedAt, finishedAt string

		err := rows.Scan(
			&s.RunID,
			&s.RootURL,
			&startedAt,
			&finishedAt,
			&s.PagesCrawled,
			&s.PagesSkipped,
			&s.ErrorCount,
			&s.MakerCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		s.StartedAt = parseTimestamp(startedAt)
		s.FinishedAt = parseTimestamp(finishedAt)
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRun retrieves one stored run, including its decision makers and
// error entries. Returns ErrRunNotFound for unknown IDs.
func (sdb *ScrapeDB) GetRun(ctx context.Context, id string) (*model.Result, error) {
	if sdb == nil || sdb.db == nil {
		return nil, ErrDatabaseNotOpen
	}

	var result model.Result
	var startedAt, finishedAt string
	var errorsJSON sql.NullString

	err := sdb.db.QueryRowContext(ctx, `
	SELECT id, root_url, started_at, finished_at, pages_crawled, pages_skipped, errors
	FROM runs
	WHERE id = ?
	`, id).Scan(
		&result.RunID,
		&result.RootURL,
		&startedAt,
		&finishedAt,
		&result.PagesCrawled,
		&result.PagesSkipped,
		&errorsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	result.StartedAt = parseTimestamp(startedAt)
	result.FinishedAt = parseTimestamp(finishedAt)

	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &result.Errors); err != nil {
			return nil, fmt.Errorf("failed to parse stored errors: %w", err)
		}
	}

	rows, err := sdb.db.QueryContext(ctx, `
	SELECT name, title, email, phone, linkedin
	FROM decision_makers
	WHERE run_id = ?
	ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get decision makers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.Name, &p.Title, &p.Email, &p.Phone, &p.LinkedIn); err != nil {
			return nil, fmt.Errorf("failed to scan decision maker: %w", err)
		}
		result.DecisionMakers = append(result.DecisionMakers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &result, nil
}

// timestampFormats contains the timestamp formats that may appear in the
// database. The order matters: more specific formats should come first.
// We always write RFC3339Nano, but rows written by older builds or
// touched by external tools can carry the other shapes.
var timestampFormats = []string{
	time.RFC3339Nano,          // what SaveResult writes
	time.RFC3339,              // RFC3339 without fractional seconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time rather than failing
// the whole query.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
