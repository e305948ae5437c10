// Package query composes the two-phase anchor/resolution boolean queries
// that back goto-definition, document-highlight, find-references, rename,
// and workspace-symbol. This is the query composer component (C4); its
// output is a flat list of Hit values, deliberately not editor-protocol
// shapes, so internal/resultmap (C6) owns all URI/range/kind construction.
package query

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/jward/rubydex/internal/index"
	"github.com/jward/rubydex/internal/occurrence"
)

// Hit is one stored occurrence document as returned from the index.
type Hit struct {
	FilePath    []string
	Category    occurrence.Category
	NodeType    occurrence.NodeType
	Name        string
	Line        int
	StartColumn int
	EndColumn   int
	UserSpace   bool
}

// Point identifies a caret position inside a specific indexed file.
type Point struct {
	FilePathID string
	Line       int
	Column     int
}

var hitFields = []string{
	index.FieldFilePath, index.FieldCategory, index.FieldNodeType, index.FieldName,
	index.FieldLine, index.FieldStartColumn, index.FieldEndColumn, index.FieldUserSpace,
}

// Composer runs anchor/resolution queries against a Store.
type Composer struct {
	store *index.Store
}

func New(store *index.Store) *Composer {
	return &Composer{store: store}
}

// anchor is the occurrence found directly under the caret.
type anchor struct {
	name       string
	nodeType   occurrence.NodeType
	fuzzyScope []string
	classScope []string
}

// findAnchor locates the occurrence at pt, optionally restricted to a
// category (goto-definition anchors on usages only; highlight/references
// anchor on either category, per spec.md §4.4).
func (c *Composer) findAnchor(pt Point, requireCategory occurrence.Category) (*anchor, bool, error) {
	must := []bquery.Query{
		termQuery(index.FieldFilePathID, pt.FilePathID),
		numericEquals(index.FieldLine, float64(pt.Line)),
		numericEquals(index.FieldColumns, float64(pt.Column)),
	}
	if requireCategory != "" {
		must = append(must, termQuery(index.FieldCategory, string(requireCategory)))
	}

	req := bleve.NewSearchRequest(bquery.NewConjunctionQuery(must))
	req.Size = 1
	req.Fields = []string{index.FieldName, index.FieldNodeType, index.FieldFuzzyRubyScope, index.FieldClassScope}

	res, err := c.store.Index().Search(req)
	if err != nil {
		return nil, false, fmt.Errorf("query: find anchor: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, false, nil
	}

	hit := res.Hits[0]
	return &anchor{
		name:       stringField(hit.Fields, index.FieldName),
		nodeType:   occurrence.NodeType(stringField(hit.Fields, index.FieldNodeType)),
		fuzzyScope: stringSliceField(hit.Fields, index.FieldFuzzyRubyScope),
		classScope: stringSliceField(hit.Fields, index.FieldClassScope),
	}, true, nil
}

// Definitions implements goto-definition: anchor on a usage, then resolve to
// every matching assignment per spec.md §4.4's scope rules, limit 50.
func (c *Composer) Definitions(pt Point) ([]Hit, error) {
	a, ok, err := c.findAnchor(pt, occurrence.Usage)
	if err != nil || !ok {
		return nil, err
	}

	possibleAssignments := usageTypeRestrictions[a.nodeType]
	if len(possibleAssignments) == 0 {
		return nil, nil
	}

	must := []bquery.Query{
		termQuery(index.FieldCategory, string(occurrence.Assignment)),
		termQuery(index.FieldName, a.name),
		disjunctionOf(index.FieldNodeType, possibleAssignments),
	}
	must = append(must, scopeMustClauses(a)...)
	should := scopeQueries(a)

	b := bquery.NewBooleanQuery(must, should, nil)
	return c.run(b, 50)
}

// References implements find-references/document-highlight: anchor on
// either category, then resolve to every occurrence (assignment or usage)
// of the same name within the same file, per spec.md §4.4. Local-like
// anchors require every name of the anchor's fuzzy_ruby_scope (MUST); other
// anchors use those names as SHOULD.
// Limit: 100.
func (c *Composer) References(pt Point) ([]Hit, error) {
	a, ok, err := c.findAnchor(pt, "")
	if err != nil || !ok {
		return nil, err
	}

	var nodeTypeOptions []occurrence.NodeType
	nodeTypeOptions = append(nodeTypeOptions, usageTypeRestrictions[a.nodeType]...)
	nodeTypeOptions = append(nodeTypeOptions, assignmentTypeRestrictions[a.nodeType]...)
	if len(nodeTypeOptions) == 0 {
		return nil, nil
	}

	must := []bquery.Query{
		termQuery(index.FieldFilePathID, pt.FilePathID),
		termQuery(index.FieldName, a.name),
		disjunctionOf(index.FieldNodeType, nodeTypeOptions),
	}

	if isLocalLike(a.nodeType) {
		for _, name := range a.fuzzyScope {
			must = append(must, termQuery(index.FieldFuzzyRubyScope, name))
		}
		b := bquery.NewBooleanQuery(must, nil, nil)
		return c.run(b, 100)
	}

	var should []bquery.Query
	for _, name := range a.fuzzyScope {
		should = append(should, termQuery(index.FieldFuzzyRubyScope, name))
	}
	b := bquery.NewBooleanQuery(must, should, nil)
	return c.run(b, 100)
}

// WorkspaceSymbols implements workspace-symbol search: user_space == true,
// name matching the regex "^query.*", node_type one of the allowed
// definition-like kinds. Limit: 100.
func (c *Composer) WorkspaceSymbols(queryText string) ([]Hit, error) {
	must := []bquery.Query{
		boolTermQuery(index.FieldUserSpace, true),
		regexpQuery(index.FieldName, "^"+queryText+".*"),
		disjunctionOf(index.FieldNodeType, workspaceSymbolTypes),
	}
	b := bquery.NewBooleanQuery(must, nil, nil)
	return c.run(b, 100)
}

// scopeQueries builds the scope-matching clauses for an anchor per
// spec.md §4.4's per-kind rules, returning the SHOULD clauses; MUST clauses
// (local-like, Const class_scope, Send boost-as-MUST) are folded directly
// into the boolean query's must list by the caller via scopeMustClauses.
func scopeQueries(a *anchor) []bquery.Query {
	switch {
	case a.nodeType == occurrence.Const:
		var should []bquery.Query
		for _, name := range a.fuzzyScope {
			should = append(should, termQuery(index.FieldFuzzyRubyScope, name))
		}
		return should

	case isLocalLike(a.nodeType):
		return nil

	case a.nodeType == occurrence.Send && len(a.classScope) > 0:
		return nil

	default:
		var should []bquery.Query
		for _, name := range a.fuzzyScope {
			should = append(should, termQuery(index.FieldFuzzyRubyScope, name))
		}
		return should
	}
}

// scopeMustClauses builds the MUST clauses for an anchor's scope rule.
// Const requires every class_scope name to appear in the candidate's
// fuzzy_ruby_scope; local-like kinds require every fuzzy_ruby_scope name as
// MUST; Send with a class_scope requires every class-scope name in the
// candidate's fuzzy_ruby_scope as MUST with a large boost (the "boost-as-MUST
// quirk", preserved intentionally per spec.md §9 for compatibility with the
// original implementation's behavior).
func scopeMustClauses(a *anchor) []bquery.Query {
	switch {
	case a.nodeType == occurrence.Const:
		var must []bquery.Query
		for _, name := range a.classScope {
			must = append(must, termQuery(index.FieldFuzzyRubyScope, name))
		}
		return must

	case isLocalLike(a.nodeType):
		var must []bquery.Query
		for _, name := range a.fuzzyScope {
			must = append(must, termQuery(index.FieldFuzzyRubyScope, name))
		}
		return must

	case a.nodeType == occurrence.Send && len(a.classScope) > 0:
		var must []bquery.Query
		for _, name := range a.classScope {
			q := termQuery(index.FieldFuzzyRubyScope, name)
			q.SetBoost(10.0)
			must = append(must, q)
		}
		return must

	default:
		return nil
	}
}

func (c *Composer) run(q bquery.Query, limit int) ([]Hit, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = hitFields

	res, err := c.store.Index().Search(req)
	if err != nil {
		return nil, fmt.Errorf("query: search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			FilePath:    stringSliceField(h.Fields, index.FieldFilePath),
			Category:    occurrence.Category(stringField(h.Fields, index.FieldCategory)),
			NodeType:    occurrence.NodeType(stringField(h.Fields, index.FieldNodeType)),
			Name:        stringField(h.Fields, index.FieldName),
			Line:        intField(h.Fields, index.FieldLine),
			StartColumn: intField(h.Fields, index.FieldStartColumn),
			EndColumn:   intField(h.Fields, index.FieldEndColumn),
			UserSpace:   boolField(h.Fields, index.FieldUserSpace),
		})
	}
	return hits, nil
}
