package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvasirlabs/leadscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/leadscan.yml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new leadscan configuration file",
		Long: `Initialize creates a new .leadscan.yml configuration file in the current directory.

The generated file includes:
- A place for the extraction API key
- Commented examples for per-site crawl settings
- Documentation for all available options

Examples:
  # Create .leadscan.yml in current directory
  leadscan init

  # Create config file at a specific path
  leadscan init -o myconfig.yml

  # Force overwrite existing file
  leadscan init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/leadscan.yml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file with secure permissions, it may hold an
	// API key
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The extraction API key")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Page budgets and timeouts per site")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Headless browser rendering per site")

	return nil
}
