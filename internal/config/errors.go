package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A zero or negative budget would admit no pages and crawl nothing.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWorkers is returned when the worker cap is negative.
	// Zero is valid and means size the pool automatically from host
	// resources; only negative values are rejected.
	ErrInvalidWorkers = errors.New("invalid max workers: must be zero (automatic) or positive")

	// ErrMissingAPIKey is returned when no extraction API credential was
	// resolved from the flag, the config file, or the environment.
	ErrMissingAPIKey = errors.New("missing API key: set --api-key, the api_key config field, or OPENAI_API_KEY")

	// ErrInvalidTimeout is returned when the per-page timeout is not positive.
	// A zero or negative timeout would cause every fetch to fail immediately.
	ErrInvalidTimeout = errors.New("invalid page timeout: must be positive")

	// ErrInvalidOutputFormat is returned when --output names an unknown
	// report format. Only table, json, and markdown are supported.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be table, json, or markdown")
)
