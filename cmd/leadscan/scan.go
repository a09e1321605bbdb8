package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kvasirlabs/leadscan"
	"github.com/kvasirlabs/leadscan/internal/config"
	"github.com/kvasirlabs/leadscan/internal/database"
	"github.com/kvasirlabs/leadscan/internal/log"
	"github.com/kvasirlabs/leadscan/internal/model"
	"github.com/kvasirlabs/leadscan/internal/monitoring"
	"github.com/kvasirlabs/leadscan/internal/report"
	"github.com/spf13/cobra"
)

// apiKeyEnvVar is the environment variable consulted when neither the
// --api-key flag nor the config file provides a credential.
const apiKeyEnvVar = "OPENAI_API_KEY"

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Scrape websites for decision makers",
		Long: `Scan crawls one or more company websites and extracts decision makers.

Each site is crawled breadth-first, highest-value pages first (about,
team, contact, leadership). Page text is sent to an OpenAI-compatible
chat-completions API that returns the people it finds; the same person
mentioned on several pages is reported once.

The API key resolves from --api-key, then the api_key config field,
then the OPENAI_API_KEY environment variable (a .env file in the
current directory is honored).

Examples:
  # Scan a single site
  leadscan scan https://acme.example

  # Scan several sites in one run
  leadscan scan https://acme.example https://globex.example

  # Render JavaScript-heavy sites with headless Chrome
  leadscan scan --browser https://acme.example

  # Machine-readable output to a file
  leadscan scan -o json -f leads.json https://acme.example

  # Use a custom configuration file
  leadscan scan -c myconfig.yml https://acme.example

Configuration file (.leadscan.yml) example:
  api_key: "sk-..."
  defaults:
    max_pages: 20
  sites:
    acme.example:
      browser: true
      page_timeout: 45s`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	// Crawl budget flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().IntP("max-workers", "w", 0,
		"Concurrent page workers (0 = size automatically from host resources)")

	// Extraction flags
	cmd.Flags().StringP("api-key", "k", "",
		"Extraction API key (default: config file, then "+apiKeyEnvVar+")")
	cmd.Flags().String("model", config.DefaultModel,
		"Chat-completions model used for extraction")
	cmd.Flags().String("endpoint", "",
		"Chat-completions URL for OpenAI-compatible servers (default: OpenAI)")

	// Fetch behavior flags
	cmd.Flags().BoolP("browser", "b", false,
		"Render pages with headless Chrome (for JavaScript-heavy sites)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultPageTimeout,
		"Per-page fetch timeout, rendering included")
	cmd.Flags().Bool("no-robots", false,
		"Ignore robots.txt disallow rules")

	// Report flags
	cmd.Flags().StringP("output", "o", config.OutputTable,
		"Report format: table, json, or markdown")
	cmd.Flags().StringP("output-file", "f", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not save results to the history database")

	// Monitoring flags
	cmd.Flags().String("metrics-addr", "",
		"Listen address for the Prometheus /metrics endpoint (e.g., :9090)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .leadscan.yml in current or XDG config directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewRedactLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current site...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxWorkers, err = cmd.Flags().GetInt("max-workers")
	if err != nil {
		return nil, err
	}

	cfg.PageTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UseBrowser, err = cmd.Flags().GetBool("browser")
	if err != nil {
		return nil, err
	}

	noRobots, err := cmd.Flags().GetBool("no-robots")
	if err != nil {
		return nil, err
	}
	cfg.RespectRobots = !noRobots

	cfg.OutputFormat, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output-file")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.MetricsAddr, err = cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load credentials and per-site configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	applyFileConfig(cmd, cfg)

	if err := resolveAPIKey(cmd, cfg); err != nil {
		return nil, err
	}

	// Get positional arguments (site URLs)
	cfg.Targets = args

	return cfg, nil
}

// applyFileConfig copies top-level config file fields into the Config.
// Explicitly set flags win over the file; the file wins over flag
// defaults. Crawl tuning (defaults and per-site sections) is applied
// later, per target, via Config.ForTarget.
func applyFileConfig(cmd *cobra.Command, cfg *config.Config) {
	file := cfg.SiteConfigs
	if file == nil {
		return
	}

	if file.Model != "" && !cmd.Flags().Changed("model") {
		cfg.Model = file.Model
	}
	if file.Endpoint != "" && !cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = file.Endpoint
	}
	if file.RateLimitRPS != 0 {
		cfg.RateLimitRPS = file.RateLimitRPS
	}
}

// resolveAPIKey fills Config.APIKey from the first available source:
// the --api-key flag, the config file api_key field, or the
// OPENAI_API_KEY environment variable. A .env file in the current
// directory is loaded best-effort before the environment lookup.
func resolveAPIKey(cmd *cobra.Command, cfg *config.Config) error {
	flagKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return err
	}
	if flagKey != "" {
		cfg.APIKey = flagKey
		return nil
	}

	if cfg.SiteConfigs != nil && cfg.SiteConfigs.APIKey != "" {
		cfg.APIKey = cfg.SiteConfigs.APIKey
		return nil
	}

	// A missing .env file is the normal case, not an error
	_ = godotenv.Load() //nolint:errcheck // best-effort convenience load
	cfg.APIKey = os.Getenv(apiKeyEnvVar)

	return nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more site URLs as arguments)")
	}

	logger.Info("starting scan",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"browser", cfg.UseBrowser,
		"saveHistory", cfg.SaveHistory,
	)

	// Open the history database if saving is enabled. A broken history
	// store must never cost the user a scan, so failures only log.
	var db *database.ScrapeDB
	if cfg.SaveHistory {
		var err error
		db, err = database.Open(cfg.DBPath, database.WithCreateIfNotExists(), database.WithWAL())
		if err != nil {
			logger.Error("failed to open history database, results will not be saved",
				"path", cfg.DBPath, "error", err)
			db = nil
		} else {
			defer db.Close()
			logger.Info("history database opened", "path", cfg.DBPath)
		}
	}

	// Start the metrics endpoint if requested
	var metrics *monitoring.Metrics
	if cfg.MetricsAddr != "" {
		metrics = monitoring.NewMetrics()
		server := monitoring.NewServer(cfg.MetricsAddr, metrics, logger)
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shut down metrics server", "error", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "Metrics available at http://%s/metrics\n\n", server.Addr())
	}

	results := make([]*model.Result, 0, len(cfg.Targets))
	interrupted := false

scanLoop:
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			interrupted = true
			break scanLoop
		default:
		}

		// Apply site-specific configuration for this target
		targetCfg := cfg.ForTarget(baseDomainOf(target))

		fmt.Fprintf(os.Stderr, "Scanning %s...\n", target)
		startTime := time.Now()

		// A one-element batch keeps per-site isolation: a panic or
		// startup failure becomes an error-only result, never a crash.
		result := leadscan.ScrapeMany(ctx, []string{target}, scrapeOptions(&targetCfg, logger, metrics)...)[0]

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Scan completed in %s: %d pages crawled, %d decision makers\n\n",
			elapsed.Round(time.Millisecond), result.PagesCrawled, len(result.DecisionMakers))

		results = append(results, result)

		// Save to history if enabled
		saveResult(db, result, logger)
	}

	// Print whatever was collected, even on interrupt
	if err := outputResults(cfg, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if interrupted {
		return fmt.Errorf("scan interrupted: %w", ctx.Err())
	}

	return nil
}

// scrapeOptions translates the resolved configuration for one target
// into library options.
func scrapeOptions(cfg *config.Config, logger *slog.Logger, metrics *monitoring.Metrics) []leadscan.Option {
	opts := []leadscan.Option{
		leadscan.WithMaxPages(cfg.MaxPages),
		leadscan.WithAPIKey(cfg.APIKey),
		leadscan.WithModel(cfg.Model),
		leadscan.WithRateLimit(cfg.RateLimitRPS),
		leadscan.WithPageTimeout(cfg.PageTimeout),
		leadscan.WithBrowser(cfg.UseBrowser),
		leadscan.WithRespectRobots(cfg.RespectRobots),
		leadscan.WithLogger(logger),
	}

	if cfg.MaxWorkers > 0 {
		opts = append(opts, leadscan.WithMaxWorkers(cfg.MaxWorkers))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, leadscan.WithEndpoint(cfg.Endpoint))
	}
	if metrics != nil {
		opts = append(opts, leadscan.WithMetrics(metrics))
	}

	return opts
}

// baseDomainOf extracts the config-file site key from a target URL:
// the lowercased host without a www prefix. Unparseable targets map to
// the empty key, which matches only the defaults section.
func baseDomainOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return ""
	}
	return model.BaseDomain(u.Host)
}

// outputResults writes the collected results in the requested format.
func outputResults(cfg *config.Config, results []*model.Result) error {
	// Determine output destination
	var output *os.File
	if cfg.OutputFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.OutputFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports contain names and contact details that should only be
		// readable by the owner
		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	switch cfg.OutputFormat {
	case config.OutputJSON:
		writer := report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
		_, err := writer.WriteAll(results)
		return err
	case config.OutputMarkdown:
		writer := report.NewMarkdownWriter(output)
		for _, result := range results {
			if _, err := writer.Write(result); err != nil {
				return err
			}
		}
		return nil
	default:
		writer := report.NewTableWriter(output)
		for _, result := range results {
			if _, err := writer.Write(result); err != nil {
				return err
			}
		}
		return nil
	}
}

// saveResult saves one result to the history database.
// If db is nil, this function is a no-op. Saving uses its own short
// deadline because the run context may already be cancelled when the
// scan was interrupted, and partial results should still land.
func saveResult(db *database.ScrapeDB, result *model.Result, logger *slog.Logger) {
	if db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.SaveResult(ctx, result); err != nil {
		logger.Error("failed to save result to history", "url", result.RootURL, "error", err)
		return
	}

	logger.Info("result saved to history", "runID", result.RunID)
}
