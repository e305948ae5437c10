// Package rubydex provides an editor-integrated symbol indexer and
// navigation engine for Ruby. It parses source text with tree-sitter,
// flattens the AST into scoped occurrence records, stores them in a
// full-text inverted index, and answers editor navigation queries:
// go-to-definition, document-highlight, find-references, workspace symbol
// search, and token rename. Syntax diagnostics found while parsing a file
// are returned by [Engine.ReindexFile]; the package does not send them to
// an editor itself.
//
// # Pipeline
//
// rubydex operates in three stages:
//
//  1. Parse: tree-sitter's Ruby grammar turns source bytes into a concrete
//     syntax tree (internal/parseadapter).
//  2. Serialize: the tree is flattened into occurrence records — definitions
//     and usages of identifiers, each carrying a node-type taxonomy and two
//     scope chains (internal/occurrence).
//  3. Index: occurrences are written to a bleve full-text index, which later
//     answers queries via a two-phase anchor/resolution algorithm
//     (internal/index, internal/query).
//
// # Usage
//
// Create an Engine over a workspace, crawl it, and query:
//
//	e, err := rubydex.New("/path/to/workspace", config.Default())
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	err = e.Crawl(ctx)
//
//	q := e.Query()
//	locs, err := q.DefinitionAt("app/models/widget.rb", 10, 5)
//
// # Query API
//
// The [QueryBuilder] returned by [Engine.Query] provides the navigation
// operations:
//
//   - [QueryBuilder.DefinitionAt] — go-to-definition.
//   - [QueryBuilder.HighlightAt] — document-highlight.
//   - [QueryBuilder.ReferencesAt] — find-references.
//   - [QueryBuilder.RenameAt] — rename, reusing reference lookup.
//   - [QueryBuilder.WorkspaceSymbols] — workspace-wide symbol search.
//
// # Lifecycle
//
// [Engine.Crawl] performs (or repeats) a full workspace walk, reindexing
// any file whose modification time is at or after the last crawl's
// watermark and deleting occurrences for files that disappeared.
// [Engine.ReindexFile] is the synchronous live-edit path: an editor's
// didOpen/didChange/didSave handler calls it directly with the full text of
// one file. [Engine.IndexDependencies] indexes the Ruby standard library,
// locked gems, and any configured include directories, all in interface-only
// mode unless a directory overrides that. [Engine.Watch] and
// [Engine.WatchHostProcess] start the supplemental filesystem-event and
// host-editor-liveness background tasks.
package rubydex
