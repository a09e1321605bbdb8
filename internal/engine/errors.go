package engine

import "errors"

// Engine errors.
var (
	// ErrNoTarget is returned by Run when the target is the zero value.
	// Construct targets with model.NewTarget so the URL is validated.
	ErrNoTarget = errors.New("no target specified: provide a site URL")
)
