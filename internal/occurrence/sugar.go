package occurrence

// sugarKind describes how many synthetic Def names a sugar call produces
// and how their names are derived from the call's symbol/string arguments.
type sugarKind int

const (
	sugarReader    sugarKind = iota // attr_reader / belongs_to-style: name
	sugarWriter                     // attr_writer: name=
	sugarAccessor                   // attr_accessor: name, name=
	sugarAliasDef                   // alias_method: first arg only, as-is
)

// sendSugar maps a recognized DSL method name to how it should be expanded
// into synthetic Def assignments. The list is fixed and non-configurable
// (see the open question in the design notes): extending it to test-DSL
// helpers like `let`/`let!` was considered and deferred.
var sendSugar = map[string]sugarKind{
	"attr_accessor":             sugarAccessor,
	"attr_reader":                sugarReader,
	"attr_writer":                sugarWriter,
	"alias_method":               sugarAliasDef,
	"belongs_to":                 sugarReader,
	"has_one":                    sugarReader,
	"has_many":                   sugarReader,
	"has_and_belongs_to_many":    sugarReader,
}

// sugarNames returns the synthetic assignment names a sugar call emits,
// given the plain (colon/quote-stripped) name of one of its arguments. For
// alias_method the caller passes only the first argument's bare name.
func sugarNames(kind sugarKind, firstArg string) []string {
	switch kind {
	case sugarReader:
		return []string{firstArg}
	case sugarWriter:
		return []string{firstArg + "="}
	case sugarAccessor:
		return []string{firstArg, firstArg + "="}
	case sugarAliasDef:
		return []string{firstArg}
	default:
		return nil
	}
}
