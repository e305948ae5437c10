// Package parseadapter wraps tree-sitter's Ruby grammar binding behind a
// small, dependency-free surface: parse source bytes into a concrete syntax
// tree, and turn tree-sitter's built-in error markers into positional
// diagnostics. It does not know anything about the occurrence taxonomy —
// that normalization lives in internal/occurrence.
package parseadapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Diagnostic describes a syntax problem found while parsing a file.
type Diagnostic struct {
	Message     string
	StartByte   uint32
	EndByte     uint32
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Tree wraps a parsed tree-sitter tree together with the source it was
// parsed from, so callers can recover node text without re-threading the
// byte slice everywhere.
type Tree struct {
	Source []byte
	tree   *sitter.Tree
}

// Root returns the tree's root node ("program" for a whole file).
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Parser parses Ruby source into concrete syntax trees.
type Parser struct {
	sp *sitter.Parser
}

// New returns a Parser configured with the Ruby grammar.
func New() *Parser {
	sp := sitter.NewParser()
	sp.SetLanguage(ruby.GetLanguage())
	return &Parser{sp: sp}
}

// Parse parses source and returns the tree plus any diagnostics recovered
// from tree-sitter's error-recovery nodes. A tree is always returned when
// tree-sitter could produce one, even in the presence of diagnostics;
// callers decide whether to treat diagnostics as parse failure per the
// indexer's reindex algorithm.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, []Diagnostic, error) {
	t, err := p.sp.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, nil, fmt.Errorf("parseadapter: parse: %w", err)
	}
	tree := &Tree{Source: source, tree: t}
	diags := collectDiagnostics(tree.Root(), source)
	return tree, diags, nil
}

// collectDiagnostics walks the tree looking for ERROR and MISSING nodes,
// tree-sitter's built-in recovery markers.
func collectDiagnostics(n *sitter.Node, source []byte) []Diagnostic {
	var out []Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			start, end := n.StartPoint(), n.EndPoint()
			msg := "syntax error"
			if n.IsMissing() {
				msg = fmt.Sprintf("missing %s", n.Type())
			}
			out = append(out, Diagnostic{
				Message:     msg,
				StartByte:   n.StartByte(),
				EndByte:     n.EndByte(),
				StartLine:   int(start.Row),
				StartColumn: int(start.Column),
				EndLine:     int(end.Row),
				EndColumn:   int(end.Column),
			})
			if n.IsMissing() {
				return
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(n)
	return out
}

// HasErrors reports whether source failed to parse cleanly enough to index.
// Per the reindex algorithm, any diagnostic aborts emission for the file.
func HasErrors(diags []Diagnostic) bool {
	return len(diags) > 0
}
