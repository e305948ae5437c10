package occurrence

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Serializer walks a parsed Ruby tree and accumulates Occurrence records.
// It holds the ambient mutable state the spec describes: the output slice
// plus two scope stacks threaded through the recursive walk.
type Serializer struct {
	source []byte

	out []Occurrence

	// scopeStack holds the enclosing class/module/method chain, outermost
	// first. Pushed on entering Class/Module/Def/Defs, popped on exit.
	scopeStack []string

	// classStack mirrors class/module entry only (not Def/Defs), used to
	// answer "what class are we lexically inside" for Super's receiverless
	// resolution is not needed here, but kept for symmetry with the
	// original implementation and available to future callers.
	classStack []string

	// filePathID and filePath are stamped onto every emitted record.
	filePathID string
	filePath   []string
	userSpace  bool

	// interfaceOnly skips Def/Defs bodies and Block/argument_list subtrees,
	// used for gems and interface-only include dirs.
	interfaceOnly bool
}

// New creates a Serializer for one file. filePathID and filePath identify
// the file being walked; userSpace distinguishes workspace code from
// dependency code; interfaceOnly selects the coarser gem/include-dir mode.
func New(filePathID string, filePath []string, userSpace, interfaceOnly bool) *Serializer {
	return &Serializer{
		filePathID:    filePathID,
		filePath:      filePath,
		userSpace:     userSpace,
		interfaceOnly: interfaceOnly,
	}
}

// Serialize walks root (a "program" node) and returns the flattened
// occurrence list. source must be the same byte slice the tree was parsed
// from, since tree-sitter nodes only carry byte offsets.
func (s *Serializer) Serialize(root *sitter.Node, source []byte) []Occurrence {
	s.source = source
	s.out = nil
	s.scopeStack = nil
	s.classStack = nil
	s.walkChildren(root)
	return s.out
}

// text returns the source text spanned by n.
func (s *Serializer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(s.source)
}

// pushScope enters a new lexical scope. Callers must pair every push with a
// deferred pop so early returns cannot desync the stack.
func (s *Serializer) pushScope(name string) {
	s.scopeStack = append(s.scopeStack, name)
}

func (s *Serializer) popScope() {
	s.scopeStack = s.scopeStack[:len(s.scopeStack)-1]
}

func (s *Serializer) pushClass(name string) {
	s.classStack = append(s.classStack, name)
}

func (s *Serializer) popClass() {
	s.classStack = s.classStack[:len(s.classStack)-1]
}

// currentScope returns a copy of the scope stack, safe to store on an
// emitted record without aliasing future mutations.
func (s *Serializer) currentScope() []string {
	if len(s.scopeStack) == 0 {
		return nil
	}
	cp := make([]string, len(s.scopeStack))
	copy(cp, s.scopeStack)
	return cp
}

// emit appends one occurrence using the span of n as (line, start, end).
func (s *Serializer) emit(n *sitter.Node, category Category, nodeType NodeType, name string, classScope []string) {
	if n == nil {
		return
	}
	start := n.StartPoint()
	s.out = append(s.out, Occurrence{
		FilePathID:     s.filePathID,
		FilePath:       s.filePath,
		Category:       category,
		NodeType:       nodeType,
		Name:           name,
		FuzzyRubyScope: s.currentScope(),
		ClassScope:     classScope,
		Line:           int(start.Row),
		StartColumn:    int(start.Column),
		EndColumn:      int(n.EndPoint().Column),
		UserSpace:      s.userSpace,
	})
}

// walkChildren descends into every named child of n. This is the "default:
// descend into children" fallback the spec requires for nodes outside the
// taxonomy.
func (s *Serializer) walkChildren(n *sitter.Node) {
	if n == nil {
		return
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		s.walk(n.NamedChild(i))
	}
}

// symbolName strips a leading ':' from a symbol literal's source text.
func symbolName(raw string) string {
	return strings.TrimPrefix(raw, ":")
}
