// Package occurrence walks a Ruby concrete syntax tree and flattens it into
// occurrence records: one per identifier appearance that matters for
// navigation, each carrying the scope it was seen under. This is the
// serializer component (C2) — the bulk of the system, since scope
// propagation and tie-breaks between overlapping node kinds live here.
package occurrence

// Category distinguishes a definition from a use of a name.
type Category string

const (
	Assignment Category = "assignment"
	Usage      Category = "usage"
)

// NodeType is the closed taxonomy of syntactic kinds an Occurrence can carry.
// This mirrors the node set of the whitequark-style Ruby AST the original
// implementation was built against; tree-sitter's concrete syntax tree uses
// different node names, so the serializer is responsible for normalizing
// CST shapes into these terms (see dispatch.go).
type NodeType string

const (
	Alias     NodeType = "Alias"
	Arg       NodeType = "Arg"
	Casgn     NodeType = "Casgn"
	Class     NodeType = "Class"
	Const     NodeType = "Const"
	CSend     NodeType = "CSend"
	Cvar      NodeType = "Cvar"
	Cvasgn    NodeType = "Cvasgn"
	Def       NodeType = "Def"
	Defs      NodeType = "Defs"
	Gvar      NodeType = "Gvar"
	Gvasgn    NodeType = "Gvasgn"
	Ivar      NodeType = "Ivar"
	Ivasgn    NodeType = "Ivasgn"
	Kwarg     NodeType = "Kwarg"
	Kwoptarg  NodeType = "Kwoptarg"
	Kwrestarg NodeType = "Kwrestarg"
	Lvar      NodeType = "Lvar"
	Lvasgn    NodeType = "Lvasgn"
	MatchVar  NodeType = "MatchVar"
	Module    NodeType = "Module"
	Optarg    NodeType = "Optarg"
	Restarg   NodeType = "Restarg"
	Send      NodeType = "Send"
	Shadowarg NodeType = "Shadowarg"
	Super     NodeType = "Super"
	ZSuper    NodeType = "ZSuper"
)

// Occurrence is the unit stored per indexed token.
type Occurrence struct {
	FilePathID      string
	FilePath        []string
	Category        Category
	NodeType        NodeType
	Name            string
	FuzzyRubyScope  []string
	ClassScope      []string
	Line            int
	StartColumn     int
	EndColumn       int
	UserSpace       bool
}

// Columns expands [StartColumn, EndColumn] into the per-column term set the
// index stores, so a caret-column point query resolves to the enclosing
// token. Computed on demand rather than stored on the struct, since the
// index writer is the only consumer that needs the expanded form.
func (o Occurrence) Columns() []int {
	cols := make([]int, 0, o.EndColumn-o.StartColumn+1)
	for c := o.StartColumn; c <= o.EndColumn; c++ {
		cols = append(cols, c)
	}
	return cols
}
