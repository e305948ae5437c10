package query

import "github.com/jward/rubydex/internal/occurrence"

// usageTypeRestrictions maps a usage node_type to the assignment node_types
// that can define it. Transcribed verbatim from the original implementation's
// USAGE_TYPE_RESTRICTIONS table (original_source/src/persistence.rs); this is
// the literal resolution table spec.md §4.4 describes in prose.
var usageTypeRestrictions = map[occurrence.NodeType][]occurrence.NodeType{
	occurrence.Alias: {occurrence.Alias, occurrence.Def, occurrence.Defs, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper},
	occurrence.Const: {occurrence.Casgn, occurrence.Class, occurrence.Module, occurrence.Const},
	occurrence.CSend: {occurrence.Alias, occurrence.Def, occurrence.Defs, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper},
	occurrence.Cvar:  {occurrence.Cvasgn, occurrence.Cvar},
	occurrence.Gvar:  {occurrence.Gvasgn, occurrence.Gvar},
	occurrence.Ivar:  {occurrence.Ivasgn, occurrence.Ivar},
	occurrence.Lvar: {
		occurrence.Arg, occurrence.Kwarg, occurrence.Kwoptarg, occurrence.Kwrestarg,
		occurrence.Lvasgn, occurrence.MatchVar, occurrence.Optarg, occurrence.Restarg,
		occurrence.Shadowarg, occurrence.Lvar,
	},
	occurrence.Send:   {occurrence.Alias, occurrence.Def, occurrence.Defs, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper},
	occurrence.Super:  {occurrence.Alias, occurrence.Def, occurrence.Defs, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper},
	occurrence.ZSuper: {occurrence.Alias, occurrence.Def, occurrence.Defs, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper},
}

// assignmentTypeRestrictions maps an assignment node_type to the usage
// node_types it can satisfy. Transcribed verbatim from the original
// implementation's ASSIGNMENT_TYPE_RESTRICTIONS table.
var assignmentTypeRestrictions = map[occurrence.NodeType][]occurrence.NodeType{
	occurrence.Alias:  {occurrence.Alias, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper, occurrence.Def, occurrence.Defs},
	occurrence.Arg:    localLike(),
	occurrence.Casgn:  {occurrence.Const, occurrence.Casgn, occurrence.Class, occurrence.Module},
	occurrence.Class:  {occurrence.Const, occurrence.Casgn, occurrence.Class, occurrence.Module},
	occurrence.Cvasgn: {occurrence.Cvar, occurrence.Cvasgn},
	occurrence.Def:    {occurrence.Alias, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper, occurrence.Def},
	occurrence.Defs:   {occurrence.Alias, occurrence.CSend, occurrence.Send, occurrence.Super, occurrence.ZSuper, occurrence.Defs},
	occurrence.Gvasgn: {occurrence.Gvar, occurrence.Gvasgn},
	occurrence.Ivasgn: {occurrence.Ivar, occurrence.Ivasgn},
	occurrence.Kwarg:     localLike(),
	occurrence.Kwoptarg:  localLike(),
	occurrence.Kwrestarg: localLike(),
	occurrence.Lvasgn:    localLike(),
	occurrence.MatchVar:  localLike(),
	occurrence.Module:    {occurrence.Const, occurrence.Casgn, occurrence.Class, occurrence.Module},
	occurrence.Optarg:    localLike(),
	occurrence.Restarg:   localLike(),
	occurrence.Shadowarg: localLike(),
}

func localLike() []occurrence.NodeType {
	return []occurrence.NodeType{
		occurrence.Lvar,
		occurrence.Arg, occurrence.Kwarg, occurrence.Kwoptarg, occurrence.Kwrestarg,
		occurrence.Lvasgn, occurrence.MatchVar, occurrence.Optarg, occurrence.Restarg, occurrence.Shadowarg,
	}
}

// isLocalLike reports whether nodeType is one of the binding-like kinds whose
// candidates must carry every name of the anchor's fuzzy_ruby_scope, rather
// than ranking-only overlap, per spec.md §4.4's "Local-like" scope rule.
func isLocalLike(nodeType occurrence.NodeType) bool {
	switch nodeType {
	case occurrence.Arg, occurrence.Kwarg, occurrence.Kwoptarg, occurrence.Kwrestarg,
		occurrence.Lvasgn, occurrence.MatchVar, occurrence.Optarg, occurrence.Restarg,
		occurrence.Shadowarg, occurrence.Lvar:
		return true
	default:
		return false
	}
}

// workspaceSymbolTypes are the node types eligible for workspace-symbol
// search, per spec.md §4.4.
var workspaceSymbolTypes = []occurrence.NodeType{
	occurrence.Alias, occurrence.Casgn, occurrence.Class, occurrence.Def, occurrence.Defs,
	occurrence.Gvasgn, occurrence.Module,
}
