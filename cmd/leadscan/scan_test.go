package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kvasirlabs/leadscan/internal/config"
	"github.com/kvasirlabs/leadscan/internal/database"
	"github.com/kvasirlabs/leadscan/internal/model"
	"github.com/kvasirlabs/leadscan/internal/report"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [url...]" {
			t.Errorf("expected use 'scan [url...]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has max-pages flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-pages")
		if flag == nil {
			t.Fatal("expected max-pages flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has max-workers flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-workers")
		if flag == nil {
			t.Fatal("expected max-workers flag")
		}
		if flag.Shorthand != "w" {
			t.Errorf("expected shorthand 'w', got %q", flag.Shorthand)
		}
	})

	t.Run("has api-key flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("api-key")
		if flag == nil {
			t.Fatal("expected api-key flag")
		}
		if flag.Shorthand != "k" {
			t.Errorf("expected shorthand 'k', got %q", flag.Shorthand)
		}
	})

	t.Run("has model flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("model")
		if flag == nil {
			t.Fatal("expected model flag")
		}
		if flag.DefValue != config.DefaultModel {
			t.Errorf("expected default %q, got %q", config.DefaultModel, flag.DefValue)
		}
	})

	t.Run("has endpoint flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("endpoint")
		if flag == nil {
			t.Fatal("expected endpoint flag")
		}
	})

	t.Run("has browser flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("browser")
		if flag == nil {
			t.Fatal("expected browser flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-robots flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("no-robots")
		if flag == nil {
			t.Fatal("expected no-robots flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.OutputTable {
			t.Errorf("expected default %q, got %q", config.OutputTable, flag.DefValue)
		}
	})

	t.Run("has output-file flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output-file")
		if flag == nil {
			t.Fatal("expected output-file flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-history flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("no-history")
		if flag == nil {
			t.Fatal("expected no-history flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has metrics-addr flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("metrics-addr")
		if flag == nil {
			t.Fatal("expected metrics-addr flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("does not have db flag (always uses XDG data directory)", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("db")
		if flag != nil {
			t.Error("db flag should not exist on scan (history owns the override)")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewScanCmd()
		result := getVerboseFlag(cmd)
		if result {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		// Set verbose flag to true
		_ = root.PersistentFlags().Set("verbose", "true")

		// Get scan subcommand
		scanCmd, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatalf("failed to find scan command: %v", err)
		}

		result := getVerboseFlag(scanCmd)
		if !result {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewScanCmd()
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://acme.example" {
			t.Errorf("expected targets [https://acme.example], got %v", cfg.Targets)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected default max pages, got %d", cfg.MaxPages)
		}
		if cfg.Model != config.DefaultModel {
			t.Errorf("expected default model, got %q", cfg.Model)
		}
		if !cfg.RespectRobots {
			t.Error("expected RespectRobots to be true")
		}
		if !cfg.SaveHistory {
			t.Error("expected SaveHistory to be true")
		}
		if cfg.OutputFormat != config.OutputTable {
			t.Errorf("expected table output, got %q", cfg.OutputFormat)
		}
	})

	t.Run("builds config with custom max pages", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("max-pages", "50")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 50 {
			t.Errorf("expected MaxPages 50, got %d", cfg.MaxPages)
		}
	})

	t.Run("builds config with browser rendering", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("browser", "true")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.UseBrowser {
			t.Error("expected UseBrowser to be true")
		}
	})

	t.Run("no-robots flag disables robots enforcement", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("no-robots", "true")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RespectRobots {
			t.Error("expected RespectRobots to be false")
		}
	})

	t.Run("no-history flag disables saving", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("no-history", "true")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SaveHistory {
			t.Error("expected SaveHistory to be false")
		}
	})

	t.Run("builds config with output format and file", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("output", "json")
		_ = cmd.Flags().Set("output-file", "/tmp/leads.json")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.OutputFormat != config.OutputJSON {
			t.Errorf("expected json output, got %q", cfg.OutputFormat)
		}
		if cfg.OutputFile != "/tmp/leads.json" {
			t.Errorf("expected OutputFile '/tmp/leads.json', got %q", cfg.OutputFile)
		}
	})

	t.Run("builds config with multiple targets", func(t *testing.T) {
		cmd := NewScanCmd()
		cfg, err := buildConfig(cmd, []string{"https://a.example", "https://b.example", "https://c.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 3 {
			t.Errorf("expected 3 targets, got %d", len(cfg.Targets))
		}
	})

	t.Run("builds config with valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "leadscan.yml")

		// Create a valid config file
		content := []byte(`
api_key: sk-from-file
model: local-model
rate_limit_rps: 5
defaults:
  max_pages: 30
sites:
  acme.example:
    browser: true
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SiteConfigs == nil {
			t.Fatal("expected SiteConfigs to be loaded")
		}
		if cfg.SiteConfigs.Defaults.MaxPages != 30 {
			t.Errorf("expected default max pages 30, got %d", cfg.SiteConfigs.Defaults.MaxPages)
		}
		if cfg.APIKey != "sk-from-file" {
			t.Errorf("expected API key from file, got %q", cfg.APIKey)
		}
		if cfg.Model != "local-model" {
			t.Errorf("expected model from file, got %q", cfg.Model)
		}
		if cfg.RateLimitRPS != 5 {
			t.Errorf("expected rate limit from file, got %v", cfg.RateLimitRPS)
		}
	})

	t.Run("explicit flags win over config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "leadscan.yml")

		content := []byte(`
api_key: sk-from-file
model: file-model
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("model", "flag-model")
		_ = cmd.Flags().Set("api-key", "sk-from-flag")
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Model != "flag-model" {
			t.Errorf("expected flag model to win, got %q", cfg.Model)
		}
		if cfg.APIKey != "sk-from-flag" {
			t.Errorf("expected flag API key to win, got %q", cfg.APIKey)
		}
	})

	t.Run("falls back to environment for API key", func(t *testing.T) {
		t.Setenv(apiKeyEnvVar, "sk-from-env")

		// A keyless explicit config file keeps any ambient user config out
		configPath := filepath.Join(t.TempDir(), "keyless.yml")
		if err := os.WriteFile(configPath, []byte("sites: {}\n"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "sk-from-env" {
			t.Errorf("expected API key from environment, got %q", cfg.APIKey)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yml")

		// Create an invalid config file
		content := []byte(`{invalid yaml`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		_, err := buildConfig(cmd, []string{"https://acme.example"})
		if err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.yml"))
		_, err := buildConfig(cmd, []string{"https://acme.example"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}

// TestApplyFileConfig tests config file precedence over flag defaults.
func TestApplyFileConfig(t *testing.T) {
	t.Parallel()

	t.Run("copies file fields over defaults", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		cfg := config.NewConfig()
		cfg.SiteConfigs = &config.File{
			Model:        "file-model",
			Endpoint:     "http://localhost:8080/v1/chat/completions",
			RateLimitRPS: 7,
		}

		applyFileConfig(cmd, cfg)

		if cfg.Model != "file-model" {
			t.Errorf("expected file model, got %q", cfg.Model)
		}
		if cfg.Endpoint != "http://localhost:8080/v1/chat/completions" {
			t.Errorf("expected file endpoint, got %q", cfg.Endpoint)
		}
		if cfg.RateLimitRPS != 7 {
			t.Errorf("expected file rate limit, got %v", cfg.RateLimitRPS)
		}
	})

	t.Run("keeps explicitly set flags", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("model", "flag-model")
		_ = cmd.Flags().Set("endpoint", "http://flag.example/v1")

		cfg := config.NewConfig()
		cfg.Model = "flag-model"
		cfg.Endpoint = "http://flag.example/v1"
		cfg.SiteConfigs = &config.File{
			Model:    "file-model",
			Endpoint: "http://file.example/v1",
		}

		applyFileConfig(cmd, cfg)

		if cfg.Model != "flag-model" {
			t.Errorf("expected flag model to win, got %q", cfg.Model)
		}
		if cfg.Endpoint != "http://flag.example/v1" {
			t.Errorf("expected flag endpoint to win, got %q", cfg.Endpoint)
		}
	})

	t.Run("handles nil file", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		cfg := config.NewConfig()
		cfg.SiteConfigs = nil

		applyFileConfig(cmd, cfg)

		if cfg.Model != config.DefaultModel {
			t.Errorf("expected default model, got %q", cfg.Model)
		}
	})
}

// TestScrapeOptions tests the flag-to-option translation.
func TestScrapeOptions(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("base options only", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		opts := scrapeOptions(cfg, logger, nil)
		if len(opts) != 8 {
			t.Errorf("expected 8 base options, got %d", len(opts))
		}
	})

	t.Run("adds conditional options", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.MaxWorkers = 4
		cfg.Endpoint = "http://localhost:8080/v1/chat/completions"
		opts := scrapeOptions(cfg, logger, nil)
		if len(opts) != 10 {
			t.Errorf("expected 10 options with workers and endpoint, got %d", len(opts))
		}
	})
}

// TestBaseDomainOf tests config-key derivation from target URLs.
func TestBaseDomainOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "strips www and lowercases", target: "https://www.Acme.example/about", want: "acme.example"},
		{name: "keeps port", target: "http://127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "no scheme means no host", target: "acme.example", want: ""},
		{name: "unparseable target", target: "http://bad url with spaces", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := baseDomainOf(tt.target)
			if got != tt.want {
				t.Errorf("baseDomainOf(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

// testResult builds a finished result with one decision maker.
func testResult(runID, rootURL string) *model.Result {
	result := model.NewResult(runID, rootURL)
	result.DecisionMakers = append(result.DecisionMakers, model.Person{
		Name:  "Dana Lee",
		Title: "General Manager",
		Email: "dana@acme.example",
	})
	result.PagesCrawled = 3
	result.Finish()
	return result
}

// TestOutputResults tests the report output functionality.
func TestOutputResults(t *testing.T) {
	t.Run("outputs JSON report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "leads.json")

		cfg := config.NewConfig()
		cfg.OutputFormat = config.OutputJSON
		cfg.OutputFile = outputPath

		results := []*model.Result{testResult("run-json-1", "https://acme.example")}

		err := outputResults(cfg, results)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Verify JSON content
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		var parsed report.JSONReport
		if err := json.Unmarshal(content, &parsed); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}

		if len(parsed.Results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(parsed.Results))
		}
		if parsed.Results[0].RunID != "run-json-1" {
			t.Errorf("expected run ID 'run-json-1', got %q", parsed.Results[0].RunID)
		}
		if parsed.Version == "" {
			t.Error("expected version to be set")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "subdir", "nested", "leads.json")

		cfg := config.NewConfig()
		cfg.OutputFormat = config.OutputJSON
		cfg.OutputFile = outputPath

		err := outputResults(cfg, []*model.Result{testResult("run-nested", "https://acme.example")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			t.Error("expected output file to be created in nested directory")
		}
	})

	t.Run("outputs table report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "leads.txt")

		cfg := config.NewConfig()
		cfg.OutputFile = outputPath

		err := outputResults(cfg, []*model.Result{testResult("run-table", "https://acme.example")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		if !bytes.Contains(content, []byte("https://acme.example")) {
			t.Error("expected report to contain the root URL")
		}
		if !bytes.Contains(content, []byte("Dana Lee")) {
			t.Error("expected report to contain the decision maker")
		}
	})

	t.Run("outputs markdown report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "leads.md")

		cfg := config.NewConfig()
		cfg.OutputFormat = config.OutputMarkdown
		cfg.OutputFile = outputPath

		err := outputResults(cfg, []*model.Result{testResult("run-md", "https://acme.example")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		if !bytes.Contains(content, []byte("# Leadscan Report")) {
			t.Error("expected markdown heading")
		}
	})

	t.Run("writes all results to one file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "leads.txt")

		cfg := config.NewConfig()
		cfg.OutputFile = outputPath

		results := []*model.Result{
			testResult("run-a", "https://a.example"),
			testResult("run-b", "https://b.example"),
		}

		if err := outputResults(cfg, results); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		if !bytes.Contains(content, []byte("https://a.example")) || !bytes.Contains(content, []byte("https://b.example")) {
			t.Error("expected both sites in the report")
		}
	})

	t.Run("outputs to stdout when no file specified", func(t *testing.T) {
		cfg := config.NewConfig()

		// This should not fail - just outputs to stdout
		err := outputResults(cfg, []*model.Result{testResult("run-stdout", "https://acme.example")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestSaveResult tests the saveResult function.
func TestSaveResult(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("no-op when db is nil", func(t *testing.T) {
		t.Parallel()

		// Must not panic
		saveResult(nil, testResult("run-nil-db", "https://acme.example"), logger)
	})

	t.Run("saves result to database", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "history.db")
		db, err := database.Open(dbPath, database.WithCreateIfNotExists())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		result := testResult("run-save-1", "https://acme.example")
		saveResult(db, result, logger)

		// Verify the run landed
		saved, err := db.GetRun(context.Background(), "run-save-1")
		if err != nil {
			t.Fatalf("failed to get saved run: %v", err)
		}
		if saved.RootURL != "https://acme.example" {
			t.Errorf("expected root URL 'https://acme.example', got %q", saved.RootURL)
		}
		if len(saved.DecisionMakers) != 1 {
			t.Errorf("expected 1 decision maker, got %d", len(saved.DecisionMakers))
		}
	})
}

// TestRunScanNoTargets tests that runScan returns error when no targets provided.
func TestRunScanNoTargets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.NewConfig()
	cfg.Targets = []string{} // No targets
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	err := runScan(ctx, cfg, logger)
	if err == nil {
		t.Error("expected error for no targets")
	}
	if err.Error() != "no targets provided (specify one or more site URLs as arguments)" {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestRunScanIsolatesBadTargets tests that an unusable target becomes an
// error-only result instead of aborting the run.
func TestRunScanIsolatesBadTargets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.NewConfig()
	cfg.Targets = []string{"ftp://bad.example"}
	cfg.APIKey = "test-key"
	cfg.SaveHistory = false
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.txt")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	err := runScan(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("expected per-site isolation, got %v", err)
	}

	content, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !bytes.Contains(content, []byte("ftp://bad.example")) {
		t.Error("expected the failed target to appear in the report")
	}
	if !bytes.Contains(content, []byte("ERRORS")) {
		t.Error("expected the report to list the failure")
	}
}

// TestRunScanWithContextCancellation tests that runScan reports interruption.
func TestRunScanWithContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	cfg := config.NewConfig()
	cfg.Targets = []string{"https://acme.example"}
	cfg.APIKey = "test-key"
	cfg.SaveHistory = false
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.txt")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	err := runScan(ctx, cfg, logger)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !strings.Contains(err.Error(), "scan interrupted") {
		t.Errorf("expected 'scan interrupted' error, got %v", err)
	}
}

// TestRunScanBadMetricsAddr tests that an unusable metrics address fails the run.
func TestRunScanBadMetricsAddr(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.NewConfig()
	cfg.Targets = []string{"https://acme.example"}
	cfg.APIKey = "test-key"
	cfg.SaveHistory = false
	cfg.MetricsAddr = "256.256.256.256:0" // Unbindable address
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	err := runScan(ctx, cfg, logger)
	if err == nil {
		t.Fatal("expected error for unbindable metrics address")
	}
	if !strings.Contains(err.Error(), "metrics server") {
		t.Errorf("expected metrics server error, got %v", err)
	}
}

// TestRunScanCmdNoArgs tests runScanCmd with no arguments.
func TestRunScanCmdNoArgs(t *testing.T) {
	t.Parallel()

	// NewRootCmd already includes the scan subcommand
	rootCmd := NewRootCmd()
	// Execute "scan" with no args via root command
	rootCmd.SetArgs([]string{"scan"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for no arguments")
	}
	// Cobra's MinimumNArgs validator reports the missing argument
	if !strings.Contains(err.Error(), "arg") {
		t.Errorf("expected argument error, got: %v", err)
	}
}

// TestRunScanCmdInvalidOutputFormat tests runScanCmd with a bad --output value.
func TestRunScanCmdInvalidOutputFormat(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"scan", "--api-key", "test-key", "--output", "xml", "https://acme.example"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
	if !strings.Contains(err.Error(), "configuration error") {
		t.Errorf("expected configuration error, got: %v", err)
	}
}

// TestRunScanCmdMissingAPIKey tests runScanCmd without any credential source.
func TestRunScanCmdMissingAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnvVar, "")

	// A keyless explicit config file keeps any ambient user config out
	configPath := filepath.Join(t.TempDir(), "keyless.yml")
	if err := os.WriteFile(configPath, []byte("sites: {}\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"scan", "-c", configPath, "https://acme.example"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

// TestRunScanPageTimeoutFromSiteConfig tests that per-site settings reach
// the per-target configuration.
func TestRunScanPageTimeoutFromSiteConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SiteConfigs = &config.File{
		Sites: map[string]config.SiteConfig{
			"acme.example": {
				MaxPages:    40,
				PageTimeout: config.Duration(45 * time.Second),
			},
		},
	}

	targetCfg := cfg.ForTarget(baseDomainOf("https://www.acme.example/about"))
	if targetCfg.MaxPages != 40 {
		t.Errorf("expected site max pages 40, got %d", targetCfg.MaxPages)
	}
	if targetCfg.PageTimeout != 45*time.Second {
		t.Errorf("expected site page timeout 45s, got %v", targetCfg.PageTimeout)
	}

	otherCfg := cfg.ForTarget(baseDomainOf("https://other.example"))
	if otherCfg.MaxPages != config.DefaultMaxPages {
		t.Errorf("expected global max pages for other site, got %d", otherCfg.MaxPages)
	}
}
