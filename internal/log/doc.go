// Package log provides a redacting slog handler for leadscan.
//
// A scrape run carries the OpenAI API key through configuration, HTTP
// headers, and error values, any of which can end up in a log attribute.
// RedactHandler wraps an slog.Handler and masks attribute values that look
// like credentials before they reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components only ever see *slog.Logger, so redaction cannot be
//     bypassed by passing the logger around
package log
