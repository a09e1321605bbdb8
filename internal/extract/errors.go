package extract

import "errors"

// Extraction errors.
// These sentinels classify API-level failures. Callers match them with
// errors.Is(); call sites wrap them with fmt.Errorf to attach attempt
// counts or HTTP statuses.
var (
	// ErrMissingAPIKey is returned by NewClient when no API key is
	// provided. Extraction cannot run without a credential.
	ErrMissingAPIKey = errors.New("missing API key: set OPENAI_API_KEY or the api_key config field")

	// ErrRateLimited is returned when the API keeps answering HTTP 429
	// after all retries are exhausted.
	ErrRateLimited = errors.New("rate limited by extraction API")

	// ErrBadCredential is returned on HTTP 401/403. Retrying cannot
	// help, so the client fails fast.
	ErrBadCredential = errors.New("extraction API rejected the credential")

	// ErrEmptyResponse is returned when the API answers 200 but the
	// completion envelope is missing, empty, or unparseable.
	ErrEmptyResponse = errors.New("empty completion from extraction API")
)
