package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML strings like "30s" or "2m" into a time.Duration.
// The yaml package only decodes integers (nanoseconds) into time.Duration,
// which nobody wants to write in a config file by hand.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler using time.ParseDuration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting the familiar "30s" form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// SiteConfig holds crawl settings for a single site, keyed by base domain.
// This allows tuning page budgets and fetch strategy per site without
// touching the command line.
type SiteConfig struct {
	// MaxPages overrides the page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"max_pages,omitempty"`

	// MaxWorkers overrides the worker cap for this site.
	// If zero, the global setting (or automatic sizing) is used.
	MaxWorkers int `yaml:"max_workers,omitempty"`

	// Browser switches this site to the headless Chrome fetcher.
	// Needed for sites that render their team pages with JavaScript.
	Browser bool `yaml:"browser,omitempty"`

	// PageTimeout overrides the per-page fetch deadline for this site,
	// written as a duration string ("45s", "2m").
	PageTimeout Duration `yaml:"page_timeout,omitempty"`
}

// File represents the structure of the .leadscan.yml configuration file.
type File struct {
	// APIKey is the extraction API credential. A CLI flag takes
	// precedence; the OPENAI_API_KEY environment variable is the
	// fallback when neither is set.
	APIKey string `yaml:"api_key,omitempty"`

	// Model overrides the chat-completions model name.
	Model string `yaml:"model,omitempty"`

	// Endpoint overrides the chat-completions URL for
	// OpenAI-compatible local servers.
	Endpoint string `yaml:"endpoint,omitempty"`

	// RateLimitRPS overrides the client-side extraction request rate.
	RateLimitRPS float64 `yaml:"rate_limit_rps,omitempty"`

	// Defaults contains site settings applied to every target unless
	// overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps base domains to their site-specific configurations.
	// Keys should be the registrable domain without protocol or www
	// prefix (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the configuration for a specific base domain.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(baseDomain string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[baseDomain]; ok {
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.MaxWorkers != 0 {
			result.MaxWorkers = siteConfig.MaxWorkers
		}
		if siteConfig.Browser {
			result.Browser = true
		}
		if siteConfig.PageTimeout != 0 {
			result.PageTimeout = siteConfig.PageTimeout
		}
	}

	return result
}
