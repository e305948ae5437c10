package lifecycle

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FSWatcher supplements the periodic workspace crawl with a fast path:
// filesystem write events trigger an immediate single-file reindex instead
// of waiting up to the crawl interval. This is additive, not a replacement
// — the periodic crawl (CrawlWorkspace) remains the correctness backstop,
// since watcher events can be coalesced or dropped by the OS. Grounded on
// fsnotify, a dependency of the sibling mvp-joe-project-cortex manifest by
// the same author as this project's teacher repo.
type FSWatcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
}

// NewFSWatcher creates a watcher recursively subscribed to every directory
// under the workspace, applying the same prune rules as the periodic crawl.
func NewFSWatcher(e *Engine) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(e.workspacePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if shouldPruneDir(d.Name(), crawlSkipNames) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
	if err != nil {
		w.Close()
		return nil, err
	}

	return &FSWatcher{engine: e, watcher: w}, nil
}

// Close stops the watcher.
func (fw *FSWatcher) Close() error {
	return fw.watcher.Close()
}

// Run processes filesystem events until ctx is canceled, reindexing
// changed .rb files as they're observed.
func (fw *FSWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("lifecycle: fswatcher: %v", err)
		}
	}
}

func (fw *FSWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".rb") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	rel, err := filepath.Rel(fw.engine.workspacePath, event.Name)
	if err != nil {
		return
	}

	content, err := os.ReadFile(event.Name)
	if err != nil {
		return // removed or unreadable between event and read; the next crawl tick reconciles it
	}

	if _, err := fw.engine.ReindexFile(ctx, rel, content); err != nil {
		log.Printf("lifecycle: fswatcher: reindex %s: %v", rel, err)
	}
}
