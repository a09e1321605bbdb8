// Package config provides configuration structures and utilities for leadscan.
// It defines the main options for crawling, extraction, and report output,
// plus a YAML config file with per-site overrides keyed by base domain.
package config
