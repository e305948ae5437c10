package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// formatLocationsText formats CLILocation results as "uri:line:col" lines.
func formatLocationsText(w io.Writer, locs []CLILocation) {
	for _, loc := range locs {
		fmt.Fprintf(w, "%s:%d:%d\n", loc.URI, loc.Range.Start.Line, loc.Range.Start.Character)
	}
}

// formatHighlightsText formats CLIDocumentHighlight results as aligned columns.
func formatHighlightsText(w io.Writer, highlights []CLIDocumentHighlight) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLINE\tSTART\tEND")
	for _, h := range highlights {
		kind := "READ"
		switch h.Kind {
		case 3:
			kind = "WRITE"
		case 1:
			kind = "TEXT"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", kind, h.Range.Start.Line, h.Range.Start.Character, h.Range.End.Character)
	}
	tw.Flush()
}

// formatSymbolsText formats CLISymbolInformation results as aligned columns.
func formatSymbolsText(w io.Writer, syms []CLISymbolInformation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tURI\tLINE")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", s.Name, s.Kind, s.Location.URI, s.Location.Range.Start.Line)
	}
	tw.Flush()
}

// formatWorkspaceEditText formats a CLIWorkspaceEdit as readable text.
func formatWorkspaceEditText(w io.Writer, edit CLIWorkspaceEdit) {
	for uri, edits := range edit.Changes {
		fmt.Fprintf(w, "%s:\n", uri)
		for _, e := range edits {
			fmt.Fprintf(w, "  %d:%d-%d -> %q\n", e.Range.Start.Line, e.Range.Start.Character, e.Range.End.Character, e.NewText)
		}
	}
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLILocation:
		formatLocationsText(w, v)
	case []CLIDocumentHighlight:
		formatHighlightsText(w, v)
	case []CLISymbolInformation:
		formatSymbolsText(w, v)
	case CLIWorkspaceEdit:
		formatWorkspaceEditText(w, v)
	case nil:
		// No output for a nil result.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	if result.TotalCount != nil {
		count := *result.TotalCount
		fmt.Fprintf(w, "\n%d result(s)\n", count)
	}
	return nil
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as
// a CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{Command: command, Error: err.Error()}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}
