package report

import (
	"encoding/json"
	"io"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// JSONWriter outputs results in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is the tool version embedded in list-form output.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion sets the tool version embedded in list-form output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		if version != "" {
			w.version = version
		}
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    "dev",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one result as a JSON object.
func (w *JSONWriter) Write(result *model.Result) (int, error) {
	return w.writeJSON(result)
}

// WriteAll outputs a batch of results as one version-wrapped list.
// This is the shape multi-URL scans emit so consumers always get a
// single JSON document.
func (w *JSONWriter) WriteAll(results []*model.Result) (int, error) {
	return w.writeJSON(NewJSONReport(results, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is a wrapper for a batch of results with tool metadata.
//
// Design decision: We wrap the results rather than modifying model.Result
// because this allows us to add output-specific fields without polluting
// the core data structure.
type JSONReport struct {
	// Version is the leadscan version that generated this report.
	Version string `json:"version"`

	// Results holds one entry per scraped site, in scan order.
	Results []*model.Result `json:"results"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(results []*model.Result, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Results: results,
	}
}
