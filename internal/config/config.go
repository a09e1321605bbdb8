package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for scraping small-business marketing sites,
// which are typically shallow (tens of pages) and hosted on modest servers.
const (
	// DefaultMaxPages is the per-site page budget for CLI scans.
	// Small-business sites rarely put decision-maker information on more
	// than a handful of pages, and every crawled page costs one LLM call.
	// The library default is higher; the CLI is deliberately frugal.
	DefaultMaxPages = 20

	// DefaultPageTimeout bounds a single page fetch, including headless
	// rendering when the browser strategy is active. 30 seconds covers
	// slow shared hosting without letting one dead page stall a wave.
	DefaultPageTimeout = 30 * time.Second

	// DefaultModel is the chat-completions model used for extraction.
	// gpt-4o-mini is accurate enough for named-entity work at a fraction
	// of the cost of the full-size models.
	DefaultModel = "gpt-4o-mini"

	// DefaultRateLimitRPS is the client-side request rate toward the
	// extraction API. Two requests per second stays comfortably inside
	// the entry-tier OpenAI limits even with many workers.
	DefaultRateLimitRPS = 2.0

	// AppName is the application name used for XDG directory paths.
	AppName = "leadscan"

	// HistoryFileName is the SQLite file that stores past run results
	// inside the XDG data directory.
	HistoryFileName = "history.db"
)

// Output format names accepted by the --output flag.
const (
	// OutputTable is the human-readable text report (default).
	OutputTable = "table"

	// OutputJSON is the machine-readable JSON report.
	OutputJSON = "json"

	// OutputMarkdown is the GitHub Flavored Markdown report.
	OutputMarkdown = "markdown"
)

// Config holds all configuration options for a leadscan invocation.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ExtractConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Targets is the list of root URLs to scrape.
	// Each target is crawled as an independent site, one after another.
	Targets []string

	// MaxPages is the page budget per site. The crawl admits no URL to
	// the frontier once this many pages have been queued.
	MaxPages int

	// MaxWorkers caps the concurrent page workers per wave.
	// Zero means size the pool automatically from host resources.
	MaxWorkers int

	// APIKey is the credential for the extraction API.
	// Resolution order: --api-key flag, config file api_key field,
	// OPENAI_API_KEY environment variable (optionally via a .env file).
	APIKey string

	// Model is the chat-completions model name used for extraction.
	Model string

	// Endpoint overrides the chat-completions URL. Useful for
	// OpenAI-compatible local servers. Empty means the OpenAI default.
	Endpoint string

	// RateLimitRPS is the client-side request rate toward the extraction
	// API in requests per second. Zero or negative disables the limiter.
	RateLimitRPS float64

	// PageTimeout is the per-page fetch deadline, including headless
	// rendering when the browser strategy is active.
	PageTimeout time.Duration

	// UseBrowser switches page fetching to headless Chrome.
	// Required for sites that render their team pages with JavaScript;
	// much slower than the default static fetcher.
	UseBrowser bool

	// RespectRobots controls whether robots.txt disallow rules are
	// honored. Enabled by default; --no-robots turns it off.
	RespectRobots bool

	// OutputFormat selects the report writer: table, json, or markdown.
	OutputFormat string

	// OutputFile is the report destination. Empty means stdout.
	OutputFile string

	// SaveHistory controls persistence of results to the SQLite history
	// database. Enabled by default; --no-history turns it off.
	SaveHistory bool

	// DBPath is the SQLite history database location.
	// Defaults to the XDG data directory (see DefaultDBPath).
	DBPath string

	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint. Empty means no metrics listener.
	MetricsAddr string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .leadscan.yml in the current
	// directory and then in the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds per-site configurations loaded from the config
	// file. Populated by LoadConfigFile and consulted per target.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, page
// budget) and two toggles default to on (robots, history). This also
// serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:      DefaultMaxPages,
		PageTimeout:   DefaultPageTimeout,
		Model:         DefaultModel,
		RateLimitRPS:  DefaultRateLimitRPS,
		OutputFormat:  OutputTable,
		RespectRobots: true,
		SaveHistory:   true,
		DBPath:        DefaultDBPath(),
	}
}

// XDGDataDir returns the XDG data directory for leadscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/leadscan
// On macOS: ~/Library/Application Support/leadscan
// On Windows: %LOCALAPPDATA%\leadscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for leadscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/leadscan
// On macOS: ~/Library/Application Support/leadscan
// On Windows: %APPDATA%\leadscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for leadscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/leadscan
// On macOS: ~/Library/Caches/leadscan
// On Windows: %LOCALAPPDATA%\leadscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultDBPath returns the default SQLite history database location
// inside the XDG data directory.
func DefaultDBPath() string {
	return filepath.Join(XDGDataDir(), HistoryFileName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scraping begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Page budget must be positive; a zero budget would crawl nothing
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// Zero workers means automatic sizing; negative is meaningless
	if c.MaxWorkers < 0 {
		return ErrInvalidWorkers
	}

	// Extraction cannot run without a credential
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}

	// Timeout must be positive; zero would fail every fetch immediately
	if c.PageTimeout <= 0 {
		return ErrInvalidTimeout
	}

	switch c.OutputFormat {
	case OutputTable, OutputJSON, OutputMarkdown:
	default:
		return ErrInvalidOutputFormat
	}

	return nil
}

// ForTarget returns a copy of the configuration with site-specific
// overrides from the config file applied for the given base domain.
// The receiver is never modified; call this once per target URL.
func (c *Config) ForTarget(baseDomain string) Config {
	out := *c
	if c.SiteConfigs == nil {
		return out
	}

	site := c.SiteConfigs.GetSiteConfig(baseDomain)
	if site.MaxPages > 0 {
		out.MaxPages = site.MaxPages
	}
	if site.MaxWorkers > 0 {
		out.MaxWorkers = site.MaxWorkers
	}
	if site.Browser {
		out.UseBrowser = true
	}
	if site.PageTimeout > 0 {
		out.PageTimeout = time.Duration(site.PageTimeout)
	}
	return out
}
