package main

import "github.com/jward/rubydex"

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

type (
	CLILocation          = rubydex.Location
	CLIDocumentHighlight = rubydex.DocumentHighlight
	CLISymbolInformation = rubydex.SymbolInformation
	CLIWorkspaceEdit     = rubydex.WorkspaceEdit
)
