package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/rubydex/internal/config"
)

var (
	flagWorkspace string
	flagFormat    string
	flagConfig    string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "rubydex",
	Short:         "Ruby symbol indexer and navigation engine",
	Long:          "rubydex indexes a Ruby workspace with tree-sitter and answers editor navigation queries over an in-memory full-text index.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to rubydex.yaml (default: <workspace>/rubydex.yaml if present)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveWorkspace returns the absolute workspace root directory.
func resolveWorkspace() (string, error) {
	abs, err := filepath.Abs(flagWorkspace)
	if err != nil {
		return "", fmt.Errorf("resolving workspace %q: %w", flagWorkspace, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// loadConfig resolves --config (or <workspace>/rubydex.yaml if present) into
// a *config.Config, falling back to config.Default() when neither exists.
func loadConfig(workspace string) (*config.Config, error) {
	path := flagConfig
	if path == "" {
		candidate := filepath.Join(workspace, "rubydex.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be json or text", format)
}
