package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// timeRounding keeps printed durations readable; nobody needs
// nanosecond precision in a terminal report.
const timeRounding = 10 * time.Millisecond

// TableWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TableWriter struct {
	baseWriter
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in human-readable format.
func (w *TableWriter) Write(result *model.Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writePeople(&sb, result)
	w.writeErrors(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the per-site header with run information.
func (w *TableWriter) writeHeader(sb *strings.Builder, result *model.Result) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          LEADSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:           %s\n", result.RootURL)
	fmt.Fprintf(sb, "Run ID:         %s\n", result.RunID)
	if !result.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started:        %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(sb, "Duration:       %s\n", result.Duration().Round(timeRounding))
	fmt.Fprintf(sb, "Pages Crawled:  %d\n", result.PagesCrawled)
	fmt.Fprintf(sb, "Pages Skipped:  %d\n", result.PagesSkipped)
	fmt.Fprintf(sb, "Status:         %s\n", statusText(result))
	sb.WriteString("\n")
}

// statusText summarizes the run outcome in one word or phrase.
func statusText(result *model.Result) string {
	switch {
	case result.PagesCrawled == 0 && len(result.Errors) > 0:
		return "FAILED"
	case len(result.Errors) > 0:
		return "Complete (with errors)"
	default:
		return "Complete"
	}
}

// writePeople writes the decision-maker table.
func (w *TableWriter) writePeople(sb *strings.Builder, result *model.Result) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "DECISION MAKERS (%d)\n", len(result.DecisionMakers))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.DecisionMakers) == 0 {
		sb.WriteString("  No decision makers found.\n\n")
		return
	}

	tw := tabwriter.NewWriter(sb, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tTITLE\tEMAIL\tPHONE\tLINKEDIN")
	for _, p := range sortedPeople(result.DecisionMakers) {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			orDash(p.Name),
			orDash(p.Title),
			orDash(p.Email),
			orDash(p.Phone),
			orDash(p.LinkedIn),
		)
	}
	// Flush into the builder; tabwriter only fails if the underlying
	// writer does, and strings.Builder never does
	_ = tw.Flush() //nolint:errcheck
	sb.WriteString("\n")
}

// writeErrors writes the error list, if any pages failed.
func (w *TableWriter) writeErrors(sb *strings.Builder, result *model.Result) {
	if len(result.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "ERRORS (%d)\n", len(result.Errors))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, e := range result.Errors {
		fmt.Fprintf(sb, "  * %s\n", e)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TableWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
