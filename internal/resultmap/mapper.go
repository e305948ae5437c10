package resultmap

import (
	"strings"

	"github.com/jward/rubydex/internal/occurrence"
	"github.com/jward/rubydex/internal/query"
)

// absoluteURI reassembles a file:// URI from a hit's stored file_path,
// prepending workspacePath when the occurrence is workspace code and a bare
// leading "/" otherwise, per spec.md §4.6's location reconstruction rule.
func absoluteURI(workspacePath string, h query.Hit) string {
	relPath := strings.Join(h.FilePath, "/")
	if h.UserSpace {
		return "file://" + strings.TrimSuffix(workspacePath, "/") + "/" + relPath
	}
	return "file:///" + relPath
}

func hitRange(h query.Hit) Range {
	return Range{
		Start: Position{Line: h.Line, Character: h.StartColumn},
		End:   Position{Line: h.Line, Character: h.EndColumn},
	}
}

// ToLocations converts goto-definition hits into Location values.
func ToLocations(workspacePath string, hits []query.Hit) []Location {
	locations := make([]Location, 0, len(hits))
	for _, h := range hits {
		locations = append(locations, Location{
			URI:   absoluteURI(workspacePath, h),
			Range: hitRange(h),
		})
	}
	return locations
}

// ToHighlights converts find-references hits (all within the same file as
// the caret) into DocumentHighlight values: assignment -> WRITE, usage ->
// READ, per spec.md §4.4.
func ToHighlights(hits []query.Hit) []DocumentHighlight {
	highlights := make([]DocumentHighlight, 0, len(hits))
	for _, h := range hits {
		kind := HighlightRead
		if h.Category == occurrence.Assignment {
			kind = HighlightWrite
		}
		highlights = append(highlights, DocumentHighlight{
			Range: hitRange(h),
			Kind:  kind,
		})
	}
	return highlights
}

// ToWorkspaceEdit converts find-references hits into a rename edit: one
// TextEdit per occurrence, all grouped under the caret's own document URI,
// since references are always restricted to a single file_path_id.
func ToWorkspaceEdit(workspacePath string, hits []query.Hit, newName string) WorkspaceEdit {
	edits := make([]TextEdit, 0, len(hits))
	var uri string
	for _, h := range hits {
		if uri == "" {
			uri = absoluteURI(workspacePath, h)
		}
		edits = append(edits, TextEdit{
			Range:   hitRange(h),
			NewText: newName,
		})
	}
	if uri == "" {
		return WorkspaceEdit{Changes: map[string][]TextEdit{}}
	}
	return WorkspaceEdit{Changes: map[string][]TextEdit{uri: edits}}
}

// ToSymbolInformation converts workspace-symbol hits into SymbolInformation
// values, mapping node_type to an LSP symbol kind per spec.md §4.6:
// Class|Casgn -> CLASS, Module -> MODULE, Alias|Def|Defs -> METHOD,
// Gvasgn -> VARIABLE, everything else -> VARIABLE.
func ToSymbolInformation(workspacePath string, hits []query.Hit) []SymbolInformation {
	symbols := make([]SymbolInformation, 0, len(hits))
	for _, h := range hits {
		symbols = append(symbols, SymbolInformation{
			Name: h.Name,
			Kind: symbolKind(h.NodeType),
			Location: Location{
				URI:   absoluteURI(workspacePath, h),
				Range: hitRange(h),
			},
		})
	}
	return symbols
}

func symbolKind(nodeType occurrence.NodeType) SymbolKind {
	switch nodeType {
	case occurrence.Class, occurrence.Casgn:
		return SymbolKindClass
	case occurrence.Module:
		return SymbolKindModule
	case occurrence.Alias, occurrence.Def, occurrence.Defs:
		return SymbolKindMethod
	case occurrence.Gvasgn:
		return SymbolKindVariable
	default:
		return SymbolKindVariable
	}
}
