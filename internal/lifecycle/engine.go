// Package lifecycle drives the indexer's background work: the periodic
// workspace crawl, one-shot include-dir and gem indexing, and synchronous
// live-edit reindexing, plus the two supplemental watchers (filesystem
// events, host-editor liveness) the original implementation ran alongside
// them. This is the indexer lifecycle component (C5).
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jward/rubydex/internal/config"
	"github.com/jward/rubydex/internal/index"
	"github.com/jward/rubydex/internal/occurrence"
	"github.com/jward/rubydex/internal/parseadapter"
)

// Engine owns the single index.Store and the mutex that serializes every
// request handler and background tick against it, per spec.md §5's
// single mutual-exclusion model.
type Engine struct {
	mu sync.Mutex

	store  *index.Store
	parser *parseadapter.Parser
	cfg    *config.Config

	workspacePath string

	// lastReindexTime is the crawl's mtime watermark: files modified at or
	// after this instant are scheduled for re-encoding on the next tick.
	lastReindexTime time.Time

	// indexedFiles tracks the relative paths currently believed to be in
	// the index, so a crawl can detect deletions.
	indexedFiles map[string]bool

	gemsIndexed        bool
	includeDirsIndexed bool
}

// New creates an Engine over a freshly allocated index.Store.
func New(workspacePath string, cfg *config.Config) (*Engine, error) {
	store, err := index.NewStore(cfg.AllocationType)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: new engine: %w", err)
	}
	return &Engine{
		store:         store,
		parser:        parseadapter.New(),
		cfg:           cfg,
		workspacePath: workspacePath,
		indexedFiles:  make(map[string]bool),
	}, nil
}

// Close releases the underlying index.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store exposes the underlying index for internal/query.
func (e *Engine) Store() *index.Store {
	return e.store
}

// reindexFileLocked parses and (re)indexes one file's occurrences. Callers
// must hold e.mu. A parse diagnostic is non-fatal: per spec.md §7, the
// prior index content for the file is preserved and the diagnostics are
// returned for the caller to publish.
func (e *Engine) reindexFileLocked(ctx context.Context, relPath string, source []byte, userSpace, interfaceOnly bool) ([]parseadapter.Diagnostic, error) {
	tree, diags, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: parse %s: %w", relPath, err)
	}
	defer tree.Close()

	if parseadapter.HasErrors(diags) {
		return diags, nil
	}

	fpID := index.FilePathID(relPath)
	s := occurrence.New(fpID, index.SplitPath(relPath), userSpace, interfaceOnly)
	occs := s.Serialize(tree.Root(), tree.Source)

	if err := e.store.ReindexFile(fpID, occs); err != nil {
		return diags, fmt.Errorf("lifecycle: reindex %s: %w", relPath, err)
	}
	e.indexedFiles[relPath] = true
	return diags, nil
}

// ReindexFile is the live-edit entry point: a document open/change/save
// event reindexes exactly that file synchronously. Change events carry
// full text, per spec.md §4.5 ("incremental sync is a non-goal").
func (e *Engine) ReindexFile(ctx context.Context, relPath string, source []byte) ([]parseadapter.Diagnostic, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reindexFileLocked(ctx, relPath, source, true, false)
}

// deleteFileLocked removes every occurrence for relPath, used when the crawl
// notices a file has disappeared from the workspace.
func (e *Engine) deleteFileLocked(relPath string) error {
	fpID := index.FilePathID(relPath)
	if err := e.store.ReindexFile(fpID, nil); err != nil {
		return fmt.Errorf("lifecycle: delete %s: %w", relPath, err)
	}
	delete(e.indexedFiles, relPath)
	return nil
}
