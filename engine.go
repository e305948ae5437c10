package rubydex

import (
	"context"
	"fmt"
	"time"

	"github.com/jward/rubydex/internal/config"
	"github.com/jward/rubydex/internal/lifecycle"
	"github.com/jward/rubydex/internal/parseadapter"
	"github.com/jward/rubydex/internal/query"
)

// CrawlInterval is the periodic workspace crawl's correctness-backstop
// cadence, per spec.md §4.5 item 1.
const CrawlInterval = 60 * time.Second

// Engine orchestrates the rubydex pipeline over one workspace: lifecycle
// management (crawl, live-edit reindex, dependency indexing) and query
// access.
type Engine struct {
	le            *lifecycle.Engine
	composer      *query.Composer
	workspacePath string
}

// New creates an Engine over a freshly allocated index for workspacePath.
// cfg is typically config.Default() or the result of config.Load.
func New(workspacePath string, cfg *config.Config) (*Engine, error) {
	le, err := lifecycle.New(workspacePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("rubydex: new engine: %w", err)
	}
	return &Engine{
		le:            le,
		composer:      query.New(le.Store()),
		workspacePath: workspacePath,
	}, nil
}

// Close releases the Engine's index resources.
func (e *Engine) Close() error {
	return e.le.Close()
}

// Query returns a QueryBuilder over the Engine's current index.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{composer: e.composer, workspacePath: e.workspacePath}
}

// Crawl performs (or repeats) the periodic workspace walk: reindex files at
// or after the last crawl's mtime watermark, delete occurrences for files
// that disappeared, and advance the watermark. Call it once at startup and
// thereafter on CrawlInterval via RunPeriodicCrawl.
func (e *Engine) Crawl(ctx context.Context) error {
	return e.le.CrawlWorkspace(ctx)
}

// RunPeriodicCrawl blocks, calling Crawl every CrawlInterval until ctx is
// canceled. Intended to run in its own goroutine alongside Watch.
func (e *Engine) RunPeriodicCrawl(ctx context.Context) {
	e.le.RunPeriodicCrawl(ctx, CrawlInterval)
}

// ReindexFile is the live-edit entry point: an editor's
// didOpen/didChange/didSave handler calls this with the full text of one
// file, relative to the workspace root. Returns any syntax diagnostics
// recovered from the parse; a non-empty result means the prior index
// content for the file was preserved rather than overwritten, per spec.md
// §7.
func (e *Engine) ReindexFile(ctx context.Context, relPath string, source []byte) ([]parseadapter.Diagnostic, error) {
	return e.le.ReindexFile(ctx, relPath, source)
}

// IndexDependencies indexes the Ruby standard library, every gem locked in
// Gemfile.lock, and any configured include directories — each in
// interface-only mode unless overridden — per spec.md §4.5 items 2 and 3.
// Idempotent: a second call after a successful one is a no-op.
func (e *Engine) IndexDependencies(ctx context.Context) error {
	if err := e.le.IndexGems(ctx); err != nil {
		return err
	}
	return e.le.IndexIncludeDirs(ctx)
}

// Watch starts the fsnotify-based fast path that supplements the periodic
// crawl: filesystem write events trigger an immediate single-file reindex
// instead of waiting for the next crawl tick. Blocks until ctx is canceled;
// run it in its own goroutine. The returned error is only non-nil if the
// watcher failed to start.
func (e *Engine) Watch(ctx context.Context) error {
	fw, err := lifecycle.NewFSWatcher(e.le)
	if err != nil {
		return fmt.Errorf("rubydex: watch: %w", err)
	}
	defer fw.Close()
	fw.Run(ctx)
	return nil
}

// WatchHostProcess polls the host editor process's liveness every 60
// seconds and exits the process with status 1 if it's gone, per spec.md §7
// ("Host editor dead"). Blocks until ctx is canceled; run it in its own
// goroutine.
func (e *Engine) WatchHostProcess(ctx context.Context, hostPID int) {
	lifecycle.NewProcessWatcher(hostPID).Run(ctx)
}
