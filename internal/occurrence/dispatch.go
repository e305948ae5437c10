package occurrence

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// walk is the big sum-type dispatch described in the design notes: a type
// switch over the concrete syntax tree's node kind, each case deciding
// whether to emit a record, what node_type/category/span/class_scope it
// carries, and which children (if any) still need walking. Anything not
// handled here falls through to walkChildren.
func (s *Serializer) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "class":
		s.walkClass(n)
	case "singleton_class":
		s.walkChildren(n.ChildByFieldName("body"))
	case "module":
		s.walkModule(n)
	case "method":
		s.walkMethod(n, false)
	case "singleton_method":
		s.walkMethod(n, true)
	case "assignment":
		s.walkAssignment(n)
	case "call", "method_call":
		s.walkCall(n)
	case "super":
		s.walkSuper(n)
	case "alias":
		s.walkAlias(n)
	case "constant":
		s.emit(n, Usage, Const, s.text(n), nil)
	case "scope_resolution":
		s.walkScopeResolution(n)
	case "identifier":
		s.emit(n, Usage, Lvar, s.text(n), nil)
	case "instance_variable":
		s.emit(n, Usage, Ivar, s.text(n), nil)
	case "class_variable":
		s.emit(n, Usage, Cvar, s.text(n), nil)
	case "global_variable":
		s.emit(n, Usage, Gvar, s.text(n), nil)
	case "simple_symbol":
		s.emit(n, Usage, Send, symbolName(s.text(n)), nil)
	case "block", "do_block":
		if s.interfaceOnly {
			return
		}
		s.walkChildren(n)
	case "argument_list":
		if s.interfaceOnly {
			return
		}
		s.walkChildren(n)
	case "in_clause":
		s.walkInClause(n)
	default:
		s.walkChildren(n)
	}
}

func (s *Serializer) walkClass(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	tail, _, ok := s.constTailAndScope(nameNode)
	if ok {
		s.emit(tail, Assignment, Class, s.text(tail), nil)
		s.pushScope(s.text(tail))
		s.pushClass(s.text(tail))
		defer s.popClass()
		defer s.popScope()
	}
	if super := n.ChildByFieldName("superclass"); super != nil {
		s.walkChildren(super)
	}
	s.walkChildren(n.ChildByFieldName("body"))
}

func (s *Serializer) walkModule(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	tail, _, ok := s.constTailAndScope(nameNode)
	if ok {
		s.emit(tail, Assignment, Module, s.text(tail), nil)
		s.pushScope(s.text(tail))
		s.pushClass(s.text(tail))
		defer s.popClass()
		defer s.popScope()
	}
	s.walkChildren(n.ChildByFieldName("body"))
}

func (s *Serializer) walkMethod(n *sitter.Node, singleton bool) {
	nameNode := n.ChildByFieldName("name")
	name := s.text(nameNode)

	nodeType := Def
	scopeName := name
	if singleton {
		nodeType = Defs
		scopeName = "self." + name
	}
	s.emit(nameNode, Assignment, nodeType, name, nil)

	s.pushScope(scopeName)
	defer s.popScope()

	if params := n.ChildByFieldName("parameters"); params != nil {
		s.walkParameters(params)
	}
	if s.interfaceOnly {
		return
	}
	s.walkChildren(n.ChildByFieldName("body"))
}

// walkParameters emits one assignment per formal parameter. Shadow block
// locals (after the ';' in `|x; y|`) are distinguished from ordinary block
// parameters by source position, since tree-sitter does not give them a
// distinct node kind.
func (s *Serializer) walkParameters(params *sitter.Node) {
	semicolonByte := -1
	childCount := int(params.ChildCount())
	for i := 0; i < childCount; i++ {
		c := params.Child(i)
		if c != nil && !c.IsNamed() && s.text(c) == ";" {
			semicolonByte = int(c.StartByte())
			break
		}
	}

	named := int(params.NamedChildCount())
	for i := 0; i < named; i++ {
		p := params.NamedChild(i)
		isShadow := semicolonByte >= 0 && int(p.StartByte()) > semicolonByte
		s.walkParameter(p, isShadow)
	}
}

func (s *Serializer) walkParameter(p *sitter.Node, isShadow bool) {
	switch p.Type() {
	case "identifier":
		if isShadow {
			s.emit(p, Assignment, Shadowarg, s.text(p), nil)
		} else {
			s.emit(p, Assignment, Arg, s.text(p), nil)
		}
	case "optional_parameter":
		name := p.ChildByFieldName("name")
		s.emit(name, Assignment, Optarg, s.text(name), nil)
		if v := p.ChildByFieldName("value"); v != nil {
			s.walk(v)
		}
	case "splat_parameter":
		name := p.ChildByFieldName("name")
		if name != nil {
			s.emit(name, Assignment, Restarg, s.text(name), nil)
		}
	case "hash_splat_parameter":
		name := p.ChildByFieldName("name")
		if name != nil {
			s.emit(name, Assignment, Kwrestarg, s.text(name), nil)
		}
	case "keyword_parameter":
		name := p.ChildByFieldName("name")
		if v := p.ChildByFieldName("value"); v != nil {
			s.emit(name, Assignment, Kwoptarg, s.text(name), nil)
			s.walk(v)
		} else {
			s.emit(name, Assignment, Kwarg, s.text(name), nil)
		}
	case "block_parameter":
		// &blk has no taxonomy slot; skip, matching the original
		// implementation's Blockarg no-op.
	case "destructured_parameter":
		s.walkChildren(p)
	default:
		s.walkChildren(p)
	}
}

func (s *Serializer) walkAssignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")

	if left != nil {
		switch left.Type() {
		case "identifier":
			s.emit(left, Assignment, Lvasgn, s.text(left), nil)
		case "instance_variable":
			s.emit(left, Assignment, Ivasgn, s.text(left), nil)
		case "class_variable":
			s.emit(left, Assignment, Cvasgn, s.text(left), nil)
		case "global_variable":
			s.emit(left, Assignment, Gvasgn, s.text(left), nil)
		case "constant":
			s.emit(left, Assignment, Casgn, s.text(left), nil)
		case "scope_resolution":
			tail, scope, ok := s.constTailAndScope(left)
			if ok {
				s.emit(tail, Assignment, Casgn, s.text(tail), scope)
			}
		default:
			// Multiple assignment targets, element/attr assignment
			// (`a[i] =`, `obj.attr =`) and similar are outside the
			// taxonomy; still walk for nested usages (e.g. the index
			// expression or receiver).
			s.walk(left)
		}
	}
	if right != nil {
		s.walk(right)
	}
}

// constTailAndScope normalizes a bare "constant" or qualified
// "scope_resolution" node into (tail name node, class_scope chain, ok).
func (s *Serializer) constTailAndScope(n *sitter.Node) (*sitter.Node, []string, bool) {
	if n == nil {
		return nil, nil, false
	}
	switch n.Type() {
	case "constant":
		return n, nil, true
	case "scope_resolution":
		name := n.ChildByFieldName("name")
		if name == nil || name.Type() != "constant" {
			return nil, nil, false
		}
		return name, s.walkQualifier(n.ChildByFieldName("scope")), true
	default:
		return nil, nil, false
	}
}

// walkQualifier implements the spec's walk(const_scope): traverse a chain
// of Const-like parents collecting names, terminating on a call, self, or
// absence (the Cbase/leading-:: case naturally falls out when a
// scope_resolution has no "scope" field).
func (s *Serializer) walkQualifier(n *sitter.Node) []string {
	var names []string
	cur := n
	for cur != nil {
		switch cur.Type() {
		case "constant":
			names = append([]string{s.text(cur)}, names...)
			cur = nil
		case "scope_resolution":
			name := cur.ChildByFieldName("name")
			if name != nil && name.Type() == "constant" {
				names = append([]string{s.text(name)}, names...)
			}
			cur = cur.ChildByFieldName("scope")
		default:
			// call, self, or anything else terminates the walk.
			cur = nil
		}
	}
	return names
}

func (s *Serializer) walkScopeResolution(n *sitter.Node) {
	tail, scope, ok := s.constTailAndScope(n)
	if !ok {
		s.walkChildren(n)
		return
	}
	s.emit(tail, Usage, Const, s.text(tail), scope)
}

func (s *Serializer) walkCall(n *sitter.Node) {
	receiver := n.ChildByFieldName("receiver")
	method := n.ChildByFieldName("method")
	operator := n.ChildByFieldName("operator")
	args := n.ChildByFieldName("arguments")
	block := n.ChildByFieldName("block")

	if receiver != nil {
		s.walk(receiver)
	}

	if method != nil {
		nodeType := Send
		if operator != nil && s.text(operator) == "&." {
			nodeType = CSend
		}

		var classScope []string
		if receiver != nil {
			if tail, scope, ok := s.constTailAndScope(receiver); ok {
				classScope = append([]string{s.text(tail)}, scope...)
			}
		}

		name := s.text(method)
		s.emit(method, Usage, nodeType, name, classScope)

		if kind, ok := sendSugar[name]; ok {
			s.emitSendSugar(kind, args)
		}
	}

	if args != nil {
		s.walk(args)
	}
	if block != nil {
		s.walk(block)
	}
}

// emitSendSugar expands a recognized DSL call (attr_accessor, belongs_to,
// alias_method, ...) into its synthetic Def assignments, derived from each
// of the call's symbol/string arguments (only the first for alias_method).
func (s *Serializer) emitSendSugar(kind sugarKind, args *sitter.Node) {
	if args == nil {
		return
	}
	count := int(args.NamedChildCount())
	for i := 0; i < count; i++ {
		arg := args.NamedChild(i)
		name, ok := literalName(arg, s.source)
		if !ok {
			continue
		}
		for _, synth := range sugarNames(kind, name) {
			s.emit(arg, Assignment, Def, synth, nil)
		}
		if kind == sugarAliasDef {
			// alias_method only derives its synthetic name from the
			// first (new-name) argument.
			return
		}
	}
}

// literalName extracts a bare name from a symbol or string literal
// argument, e.g. :name or "name" -> "name".
func literalName(n *sitter.Node, source []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "simple_symbol":
		return symbolName(n.Content(source)), true
	case "string":
		// string node wraps a "string_content" child; fall back to raw
		// content with quotes trimmed if the grammar shape differs.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "string_content" {
				return c.Content(source), true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func (s *Serializer) walkSuper(n *sitter.Node) {
	if len(s.scopeStack) == 0 {
		return
	}
	name := s.scopeStack[len(s.scopeStack)-1]
	if args := n.ChildByFieldName("arguments"); args != nil {
		s.emit(n, Usage, Super, name, nil)
		s.walk(args)
		return
	}
	s.emit(n, Usage, ZSuper, name, nil)
}

func (s *Serializer) walkAlias(n *sitter.Node) {
	if int(n.NamedChildCount()) < 2 {
		return
	}
	to := n.NamedChild(0)
	from := n.NamedChild(1)
	toName, ok := literalName(to, s.source)
	if !ok {
		toName = s.text(to)
	}
	fromName, ok := literalName(from, s.source)
	if !ok {
		fromName = s.text(from)
	}
	s.emit(to, Assignment, Alias, toName, nil)
	s.emit(from, Usage, Alias, fromName, nil)
}

// walkInClause handles Ruby 3 pattern matching (`case ... in pattern`),
// binding bare identifiers within the pattern as MatchVar assignments.
func (s *Serializer) walkInClause(n *sitter.Node) {
	pattern := n.ChildByFieldName("pattern")
	s.walkPattern(pattern)

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == pattern {
			continue
		}
		s.walk(c)
	}
}

// walkPattern recurses through a match pattern, binding bare identifiers as
// MatchVar and descending into array/find/hash pattern containers.
func (s *Serializer) walkPattern(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		s.emit(n, Assignment, MatchVar, s.text(n), nil)
	case "array_pattern", "find_pattern", "hash_pattern":
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			s.walkPattern(n.NamedChild(i))
		}
	default:
		s.walk(n)
	}
}
