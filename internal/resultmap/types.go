// Package resultmap converts internal/query.Hit values into editor-protocol
// shapes: locations, document highlights, workspace edits, and symbol
// information. This is the result mapper component (C6) — a pure,
// side-effect-free conversion layer.
//
// The shapes below are hand-rolled rather than imported from
// go.lsp.dev/protocol, even though that package is genuinely used
// elsewhere in the retrieved pack. Adopting it would mean carrying its
// full protocol surface (diagnostics, semantic tokens, workspace folders)
// for the five response shapes cmd/rubydex/serve.go actually emits. These
// structs are exactly that subset, JSON-tagged to the same wire shape.
package resultmap

// Position is zero-based (line, character), matching spec.md's zero-based
// line numbering and the LSP wire format.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range never spans lines: spec.md's occurrences are single-line spans.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location identifies a range within a file.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// DocumentHighlightKind distinguishes a write (assignment) from a read
// (usage) occurrence of the highlighted symbol.
type DocumentHighlightKind int

const (
	HighlightText  DocumentHighlightKind = 1
	HighlightRead  DocumentHighlightKind = 2
	HighlightWrite DocumentHighlightKind = 3
)

type DocumentHighlight struct {
	Range Range                 `json:"range"`
	Kind  DocumentHighlightKind `json:"kind"`
}

// TextEdit replaces the text spanned by Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit groups text edits by the document URI they apply to.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// SymbolKind mirrors the subset of LSP's SymbolKind enum spec.md's mapping
// needs: Class, Module, Method, Variable.
type SymbolKind int

const (
	SymbolKindVariable SymbolKind = 13
	SymbolKindClass    SymbolKind = 5
	SymbolKindMethod   SymbolKind = 6
	SymbolKindModule   SymbolKind = 2
)

type SymbolInformation struct {
	Name     string   `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Location Location `json:"location"`
}
