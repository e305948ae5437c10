package query

import (
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/jward/rubydex/internal/occurrence"
)

func termQuery(field, value string) *bquery.TermQuery {
	q := bquery.NewTermQuery(value)
	q.SetField(field)
	return q
}

func boolTermQuery(field string, value bool) *bquery.BoolFieldQuery {
	q := bquery.NewBoolFieldQuery(value)
	q.SetField(field)
	return q
}

func regexpQuery(field, pattern string) *bquery.RegexpQuery {
	q := bquery.NewRegexpQuery(pattern)
	q.SetField(field)
	return q
}

// numericEquals matches documents where field's numeric value equals v
// exactly, via an inclusive-both-ends range query of width zero.
func numericEquals(field string, v float64) *bquery.NumericRangeQuery {
	t := true
	q := bquery.NewNumericRangeInclusiveQuery(&v, &v, &t, &t)
	q.SetField(field)
	return q
}

// disjunctionOf builds a "field matches any of these node types" clause,
// used everywhere a restriction-table lookup yields a set of acceptable
// node_type values.
func disjunctionOf(field string, values []occurrence.NodeType) bquery.Query {
	disjuncts := make([]bquery.Query, 0, len(values))
	for _, v := range values {
		disjuncts = append(disjuncts, termQuery(field, string(v)))
	}
	return bquery.NewDisjunctionQuery(disjuncts)
}

func stringField(fields map[string]interface{}, name string) string {
	v, ok := fields[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// stringSliceField reads a multi-valued stored field. bleve returns a bare
// string when a field has exactly one value and a []interface{} when it has
// more than one, so both shapes must be handled.
func stringSliceField(fields map[string]interface{}, name string) []string {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func intField(fields map[string]interface{}, name string) int {
	v, ok := fields[name]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}

func boolField(fields map[string]interface{}, name string) bool {
	v, ok := fields[name]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
