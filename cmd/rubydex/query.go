package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jward/rubydex"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a freshly crawled workspace",
	Long:  "Crawls the workspace once, then runs a single navigation query against it. All line and column numbers are 0-based.",
}

func init() {
	queryCmd.AddCommand(definitionCmd)
	queryCmd.AddCommand(highlightCmd)
	queryCmd.AddCommand(referencesCmd)
	queryCmd.AddCommand(renameCmd)
	queryCmd.AddCommand(workspaceSymbolCmd)
}

// openEngine resolves the workspace and config, crawls it once, and returns
// a ready-to-query Engine. Every query subcommand is a one-shot process, so
// there's no persisted index to reopen.
func openEngine(ctx context.Context) (*rubydex.Engine, error) {
	workspace, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(workspace)
	if err != nil {
		return nil, err
	}
	e, err := rubydex.New(workspace, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if err := e.Crawl(ctx); err != nil {
		e.Close()
		return nil, fmt.Errorf("crawling workspace: %w", err)
	}
	return e, nil
}

// parseIntArg parses a positional argument as a non-negative integer.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

var definitionCmd = &cobra.Command{
	Use:   "definition <file> <line> <col>",
	Short: "Go to the definition of the symbol at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runDefinition,
}

func runDefinition(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("definition", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("definition", err)
	}

	e, err := openEngine(context.Background())
	if err != nil {
		return outputError("definition", err)
	}
	defer e.Close()

	locs, err := e.Query().DefinitionAt(args[0], line, col)
	if err != nil {
		return outputError("definition", err)
	}

	count := len(locs)
	return outputResult(CLIResult{Command: "definition", Results: locs, TotalCount: &count})
}

var highlightCmd = &cobra.Command{
	Use:   "highlight <file> <line> <col>",
	Short: "Highlight every occurrence of the symbol at a position within its file",
	Args:  cobra.ExactArgs(3),
	RunE:  runHighlight,
}

func runHighlight(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("highlight", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("highlight", err)
	}

	e, err := openEngine(context.Background())
	if err != nil {
		return outputError("highlight", err)
	}
	defer e.Close()

	highlights, err := e.Query().HighlightAt(args[0], line, col)
	if err != nil {
		return outputError("highlight", err)
	}

	count := len(highlights)
	return outputResult(CLIResult{Command: "highlight", Results: highlights, TotalCount: &count})
}

var referencesCmd = &cobra.Command{
	Use:   "references <file> <line> <col>",
	Short: "Find all references to the symbol at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runReferences,
}

func runReferences(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("references", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("references", err)
	}

	e, err := openEngine(context.Background())
	if err != nil {
		return outputError("references", err)
	}
	defer e.Close()

	locs, err := e.Query().ReferencesAt(args[0], line, col)
	if err != nil {
		return outputError("references", err)
	}

	count := len(locs)
	return outputResult(CLIResult{Command: "references", Results: locs, TotalCount: &count})
}

var renameCmd = &cobra.Command{
	Use:   "rename <file> <line> <col> <new-name>",
	Short: "Produce a workspace edit renaming every reference to the symbol at a position",
	Args:  cobra.ExactArgs(4),
	RunE:  runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("rename", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("rename", err)
	}

	e, err := openEngine(context.Background())
	if err != nil {
		return outputError("rename", err)
	}
	defer e.Close()

	edit, err := e.Query().RenameAt(args[0], line, col, args[3])
	if err != nil {
		return outputError("rename", err)
	}

	return outputResult(CLIResult{Command: "rename", Results: edit})
}

var workspaceSymbolCmd = &cobra.Command{
	Use:   "workspace-symbol <query>",
	Short: "Search for workspace-wide symbols by name prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceSymbol,
}

func runWorkspaceSymbol(cmd *cobra.Command, args []string) error {
	e, err := openEngine(context.Background())
	if err != nil {
		return outputError("workspace-symbol", err)
	}
	defer e.Close()

	syms, err := e.Query().WorkspaceSymbols(args[0])
	if err != nil {
		return outputError("workspace-symbol", err)
	}

	count := len(syms)
	return outputResult(CLIResult{Command: "workspace-symbol", Results: syms, TotalCount: &count})
}
