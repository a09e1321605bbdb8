package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writePeople(md, result)
	w.writeErrors(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the per-site header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.Result) {
	md.H1("Leadscan Report: " + result.RootURL)
	md.PlainText("")
}

// writeSummary writes the run summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.Result) {
	md.H2("Summary")
	md.PlainText("")

	md.BulletList(
		"Run ID: `"+result.RunID+"`",
		"Started: "+result.StartedAt.Format("2006-01-02 15:04:05 MST"),
		"Duration: "+result.Duration().Round(timeRounding).String(),
		"Pages crawled: "+strconv.Itoa(result.PagesCrawled),
		"Pages skipped: "+strconv.Itoa(result.PagesSkipped),
		"Decision makers: "+strconv.Itoa(len(result.DecisionMakers)),
	)
	md.PlainText("")

	if result.PagesCrawled+result.PagesSkipped > 0 {
		w.writePieChart(md, result)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart of page outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.Result) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)

	if result.PagesCrawled > 0 {
		chart.LabelAndIntValue("Crawled", uint64(result.PagesCrawled))
	}
	if result.PagesSkipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(result.PagesSkipped))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.Result) {
	switch {
	case result.PagesCrawled == 0 && len(result.Errors) > 0:
		md.Cautionf(
			"The scrape failed before any page was processed: %d error(s) recorded.",
			len(result.Errors),
		)
	case len(result.DecisionMakers) == 0:
		md.Warningf(
			"No decision makers were identified across %d crawled page(s). "+
				"Consider raising the page budget or enabling the browser fetcher.",
			result.PagesCrawled,
		)
	case len(result.Errors) > 0:
		md.Importantf(
			"%d page(s) failed during the crawl; results may be incomplete.",
			len(result.Errors),
		)
	default:
		md.Tip(fmt.Sprintf(
			"Found %d decision maker(s) with no crawl errors.",
			len(result.DecisionMakers),
		))
	}
	md.PlainText("")
}

// writePeople writes the decision-maker table.
func (w *MarkdownWriter) writePeople(md *markdown.Markdown, result *model.Result) {
	md.H2("Decision Makers")
	md.PlainText("")

	if len(result.DecisionMakers) == 0 {
		md.PlainText("No decision makers found.")
		md.PlainText("")
		return
	}

	people := sortedPeople(result.DecisionMakers)
	rows := make([][]string, len(people))
	for i, p := range people {
		rows[i] = []string{
			orDash(p.Name),
			orDash(p.Title),
			orDash(p.Email),
			orDash(p.Phone),
			truncateString(orDash(p.LinkedIn), 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Title", "Email", "Phone", "LinkedIn"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeErrors writes the error list, if any pages failed.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, result *model.Result) {
	if len(result.Errors) == 0 {
		return
	}

	md.H2("Errors")
	md.PlainText("")
	md.BulletList(result.Errors...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [leadscan](https://github.com/kvasirlabs/leadscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
