package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/rubydex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Crawl a workspace and report indexing statistics",
	Long:  "Parses every Ruby file in the workspace with tree-sitter, serializes occurrences, and writes them to an in-memory index, then indexes gems and configured include directories. The index is not persisted — this command is a one-shot diagnostic, since rubydex is otherwise used as a library embedded in an editor process.",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	workspace, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(workspace)
	if err != nil {
		return err
	}

	e, err := rubydex.New(workspace, cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer e.Close()

	ctx := context.Background()

	crawlStart := time.Now()
	if err := e.Crawl(ctx); err != nil {
		return fmt.Errorf("crawling workspace: %w", err)
	}
	crawlDuration := time.Since(crawlStart)

	depsStart := time.Now()
	if err := e.IndexDependencies(ctx); err != nil {
		return fmt.Errorf("indexing dependencies: %w", err)
	}
	depsDuration := time.Since(depsStart)

	fmt.Fprintf(os.Stderr, "Indexed %s in %s (crawl: %s, dependencies: %s)\n",
		workspace,
		time.Since(start).Round(time.Millisecond),
		crawlDuration.Round(time.Millisecond),
		depsDuration.Round(time.Millisecond),
	)

	return nil
}
