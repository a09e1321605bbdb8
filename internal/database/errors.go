package database

import "errors"

// History database errors.
// These sentinels let the CLI distinguish "no history yet" from real
// storage failures; callers match them with errors.Is().
var (
	// ErrDatabaseNotOpen is returned when the history database is not
	// available: methods called after Close, on a nil receiver, or Open
	// without WithCreateIfNotExists when no database file exists yet.
	ErrDatabaseNotOpen = errors.New("history database not open")

	// ErrRunNotFound is returned by GetRun when no stored run matches
	// the requested ID.
	ErrRunNotFound = errors.New("run not found in history")
)
