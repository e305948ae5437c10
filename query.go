package rubydex

import (
	"fmt"

	"github.com/jward/rubydex/internal/index"
	"github.com/jward/rubydex/internal/query"
	"github.com/jward/rubydex/internal/resultmap"
)

// Re-export the editor-protocol shapes so callers never need to import
// internal/resultmap directly.
type (
	Position          = resultmap.Position
	Range             = resultmap.Range
	Location          = resultmap.Location
	DocumentHighlight = resultmap.DocumentHighlight
	WorkspaceEdit     = resultmap.WorkspaceEdit
	SymbolInformation = resultmap.SymbolInformation
)

// QueryBuilder provides the editor navigation operations over an Engine's
// index. relPath arguments are always relative to the workspace root; line
// and column are zero-based, matching spec.md's and the LSP wire format's
// convention.
type QueryBuilder struct {
	composer      *query.Composer
	workspacePath string
}

func (q *QueryBuilder) point(relPath string, line, column int) query.Point {
	return query.Point{
		FilePathID: index.FilePathID(relPath),
		Line:       line,
		Column:     column,
	}
}

// DefinitionAt implements go-to-definition: anchors on the usage at
// (relPath, line, column) and resolves to its matching assignment(s), per
// spec.md §4.4.
func (q *QueryBuilder) DefinitionAt(relPath string, line, column int) ([]Location, error) {
	hits, err := q.composer.Definitions(q.point(relPath, line, column))
	if err != nil {
		return nil, fmt.Errorf("rubydex: definition at: %w", err)
	}
	return resultmap.ToLocations(q.workspacePath, hits), nil
}

// HighlightAt implements document-highlight: every occurrence of the
// caret's identifier within the same file, kinded WRITE (assignment) or
// READ (usage).
func (q *QueryBuilder) HighlightAt(relPath string, line, column int) ([]DocumentHighlight, error) {
	hits, err := q.composer.References(q.point(relPath, line, column))
	if err != nil {
		return nil, fmt.Errorf("rubydex: highlight at: %w", err)
	}
	return resultmap.ToHighlights(hits), nil
}

// ReferencesAt implements find-references: every occurrence of the caret's
// identifier within the same file, as locations rather than highlights.
func (q *QueryBuilder) ReferencesAt(relPath string, line, column int) ([]Location, error) {
	hits, err := q.composer.References(q.point(relPath, line, column))
	if err != nil {
		return nil, fmt.Errorf("rubydex: references at: %w", err)
	}
	return resultmap.ToLocations(q.workspacePath, hits), nil
}

// RenameAt implements rename: the same occurrence set as ReferencesAt,
// converted into a WorkspaceEdit that replaces every occurrence with
// newName, per spec.md §4.4 ("rename reuses reference lookup").
func (q *QueryBuilder) RenameAt(relPath string, line, column int, newName string) (WorkspaceEdit, error) {
	hits, err := q.composer.References(q.point(relPath, line, column))
	if err != nil {
		return WorkspaceEdit{}, fmt.Errorf("rubydex: rename at: %w", err)
	}
	return resultmap.ToWorkspaceEdit(q.workspacePath, hits, newName), nil
}

// WorkspaceSymbols implements workspace-wide symbol search: every
// definition-like occurrence in user-space code whose name starts with
// queryText.
func (q *QueryBuilder) WorkspaceSymbols(queryText string) ([]SymbolInformation, error) {
	hits, err := q.composer.WorkspaceSymbols(queryText)
	if err != nil {
		return nil, fmt.Errorf("rubydex: workspace symbols: %w", err)
	}
	return resultmap.ToSymbolInformation(q.workspacePath, hits), nil
}
