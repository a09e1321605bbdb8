package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kvasirlabs/leadscan/internal/config"
	"github.com/kvasirlabs/leadscan/internal/database"
	"github.com/kvasirlabs/leadscan/internal/report"
	"github.com/spf13/cobra"
)

// historyOptions collects the resolved history command inputs.
type historyOptions struct {
	dbPath  string
	rootURL string
	limit   int
	showID  string
	format  string
}

// NewHistoryCmd creates the history command.
// This command lists and inspects past scan results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and inspect past scan results",
		Long: `History lists past scan runs stored in the local history database.

Every scan is saved automatically unless --no-history was given. The
listing shows when each run finished, how many pages were crawled, and
how many decision makers were found. Individual runs can be printed in
full with --show.

Examples:
  # List the most recent runs
  leadscan history

  # List runs for one site only
  leadscan history --url https://acme.example

  # Print a stored run as JSON
  leadscan history --show 5f0c2de8-6c6f-4a3e-9d3a-1f2b3c4d5e6f -o json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().StringP("url", "u", "",
		"List runs for this root URL only")
	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list (0 = all)")

	// Inspection flags
	cmd.Flags().StringP("show", "s", "",
		"Print the stored run with this ID in full")
	cmd.Flags().StringP("output", "o", config.OutputTable,
		"Format for --show: table, json, or markdown")

	// Database location
	cmd.Flags().String("db", "",
		"History database path (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var opts historyOptions
	var err error

	opts.rootURL, err = cmd.Flags().GetString("url")
	if err != nil {
		return err
	}

	opts.limit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	opts.showID, err = cmd.Flags().GetString("show")
	if err != nil {
		return err
	}

	opts.format, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	opts.dbPath, err = cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if opts.dbPath == "" {
		opts.dbPath = config.DefaultDBPath()
	}

	return runHistory(cmd.Context(), cmd.OutOrStdout(), opts)
}

// runHistory opens the history database and lists or shows runs.
func runHistory(ctx context.Context, w io.Writer, opts historyOptions) error {
	// Opening without create keeps a plain listing from planting an
	// empty database file
	db, err := database.Open(opts.dbPath)
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotOpen) {
			printNoHistory(w)
			return nil
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if opts.showID != "" {
		return showRun(ctx, w, db, opts)
	}

	return listRuns(ctx, w, db, opts)
}

// showRun prints one stored run in full, in the requested format.
func showRun(ctx context.Context, w io.Writer, db *database.ScrapeDB, opts historyOptions) error {
	writer, err := writerFor(opts.format, w)
	if err != nil {
		return err
	}

	result, err := db.GetRun(ctx, opts.showID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", opts.showID, err)
	}

	_, err = writer.Write(result)
	return err
}

// listRuns prints stored run summaries, newest first.
func listRuns(ctx context.Context, w io.Writer, db *database.ScrapeDB, opts historyOptions) error {
	summaries, err := db.ListRuns(ctx, opts.rootURL, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to list scan history: %w", err)
	}

	if len(summaries) == 0 {
		if opts.rootURL != "" {
			fmt.Fprintf(w, "No scan history found for %s\n", opts.rootURL)
			fmt.Fprintln(w, "\nUse 'leadscan scan' to scan this site.")
			return nil
		}
		printNoHistory(w)
		return nil
	}

	if opts.rootURL != "" {
		fmt.Fprintf(w, "Scan history for %s (%d runs):\n\n", opts.rootURL, len(summaries))
		fmt.Fprintf(w, "  %-36s  %-20s  %6s  %6s\n", "Run ID", "Finished", "Pages", "Found")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 74))

		for _, summary := range summaries {
			fmt.Fprintf(w, "  %-36s  %-20s  %6d  %6d\n",
				summary.RunID,
				summary.FinishedAt.Format("2006-01-02 15:04:05"),
				summary.PagesCrawled,
				summary.MakerCount,
			)
		}
	} else {
		fmt.Fprintf(w, "Scan history (%d runs):\n\n", len(summaries))
		fmt.Fprintf(w, "  %-36s  %-20s  %6s  %6s  %s\n", "Run ID", "Finished", "Pages", "Found", "URL")
		fmt.Fprintln(w, "  "+strings.Repeat("-", 96))

		for _, summary := range summaries {
			fmt.Fprintf(w, "  %-36s  %-20s  %6d  %6d  %s\n",
				summary.RunID,
				summary.FinishedAt.Format("2006-01-02 15:04:05"),
				summary.PagesCrawled,
				summary.MakerCount,
				summary.RootURL,
			)
		}
	}

	fmt.Fprintln(w, "\nUse 'leadscan history --show <run-id>' to print a stored run in full.")

	return nil
}

// printNoHistory prints the friendly empty-database message.
func printNoHistory(w io.Writer) {
	fmt.Fprintln(w, "No scan history yet.")
	fmt.Fprintln(w, "\nUse 'leadscan scan <url>' to scan a site.")
}

// writerFor returns the report writer for the requested format.
func writerFor(format string, w io.Writer) (report.Writer, error) {
	switch format {
	case config.OutputJSON:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion())), nil
	case config.OutputMarkdown:
		return report.NewMarkdownWriter(w), nil
	case config.OutputTable:
		return report.NewTableWriter(w), nil
	default:
		return nil, config.ErrInvalidOutputFormat
	}
}
