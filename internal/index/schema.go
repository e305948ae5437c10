// Package index owns the on-disk (or in-memory) inverted index: the bleve
// mapping, document encoding, and whole-file delete-then-insert writer. This
// is the index schema & writer component (C3).
package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document field names. These are the bleve field keys; internal/query
// builds term/regexp queries against exactly these names.
const (
	FieldFilePathID     = "file_path_id"
	FieldFilePath       = "file_path"
	FieldCategory       = "category"
	FieldNodeType       = "node_type"
	FieldName           = "name"
	FieldFuzzyRubyScope = "fuzzy_ruby_scope"
	FieldClassScope     = "class_scope"
	FieldLine           = "line"
	FieldStartColumn    = "start_column"
	FieldEndColumn      = "end_column"
	FieldColumns        = "columns"
	FieldUserSpace      = "user_space"
)

// buildMapping constructs the occurrence document mapping: every string
// field uses bleve's keyword analyzer (no stemming, no tokenization below
// the field boundary, per spec.md's "exact-match" requirement), and every
// positional field is numeric so range/term queries on line/column work.
func buildMapping() mapping.IndexMapping {
	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = true
	exact.IncludeInAll = false

	num := bleve.NewNumericFieldMapping()
	num.Store = true
	num.IncludeInAll = false

	boolField := bleve.NewBooleanFieldMapping()
	boolField.Store = true
	boolField.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(FieldFilePathID, exact)
	doc.AddFieldMappingsAt(FieldFilePath, exact)
	doc.AddFieldMappingsAt(FieldCategory, exact)
	doc.AddFieldMappingsAt(FieldNodeType, exact)
	doc.AddFieldMappingsAt(FieldName, exact)
	doc.AddFieldMappingsAt(FieldFuzzyRubyScope, exact)
	doc.AddFieldMappingsAt(FieldClassScope, exact)
	doc.AddFieldMappingsAt(FieldLine, num)
	doc.AddFieldMappingsAt(FieldStartColumn, num)
	doc.AddFieldMappingsAt(FieldEndColumn, num)
	doc.AddFieldMappingsAt(FieldColumns, num)
	doc.AddFieldMappingsAt(FieldUserSpace, boolField)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = keyword.Name
	return im
}

// document is the bleve-facing shape of an occurrence.Occurrence. It is a
// plain struct (rather than occurrence.Occurrence itself) so the index
// package doesn't need occurrence's Columns() expansion rule duplicated at
// call sites — encodeDocument does it once.
type document struct {
	FilePathID     string   `json:"file_path_id"`
	FilePath       []string `json:"file_path"`
	Category       string   `json:"category"`
	NodeType       string   `json:"node_type"`
	Name           string   `json:"name"`
	FuzzyRubyScope []string `json:"fuzzy_ruby_scope"`
	ClassScope     []string `json:"class_scope"`
	Line           int      `json:"line"`
	StartColumn    int      `json:"start_column"`
	EndColumn      int      `json:"end_column"`
	Columns        []int    `json:"columns"`
	UserSpace      bool     `json:"user_space"`
}
