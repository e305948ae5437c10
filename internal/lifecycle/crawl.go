package lifecycle

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// crawlSkipNames are directory name fragments pruned during the workspace
// crawl, per spec.md §4.5 item 1.
var crawlSkipNames = []string{"node_modules", "tmp", ".git"}

// CrawlWorkspace implements the periodic workspace reindex (spec.md §4.5
// item 1): walk the workspace tree, filter to .rb files, skip files older
// than the watermark, delete files that disappeared, and advance the
// watermark to scan-start minus one second.
//
// Idempotent and a no-op when nothing changed: a tick that finds no file at
// or after the watermark and no deletions does not touch the index.
func (e *Engine) CrawlWorkspace(ctx context.Context) error {
	e.mu.Lock()
	scanStart := time.Now()
	watermark := e.lastReindexTime
	seen := make(map[string]bool, len(e.indexedFiles))
	e.mu.Unlock()

	err := filepath.WalkDir(e.workspacePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("lifecycle: crawl: skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if shouldPruneDir(d.Name(), crawlSkipNames) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".rb") {
			return nil
		}

		rel, err := filepath.Rel(e.workspacePath, path)
		if err != nil {
			return nil
		}
		seen[rel] = true

		info, err := d.Info()
		if err != nil {
			log.Printf("lifecycle: crawl: stat %s: %v", path, err)
			return nil
		}
		if !watermark.IsZero() && info.ModTime().Before(watermark) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("lifecycle: crawl: read %s: %v", path, err)
			return nil
		}

		e.mu.Lock()
		diags, rerr := e.reindexFileLocked(ctx, rel, content, true, false)
		e.mu.Unlock()
		if rerr != nil {
			log.Printf("lifecycle: crawl: %v", rerr)
			return nil
		}
		if len(diags) > 0 && e.cfg.ReportDiagnostics {
			log.Printf("lifecycle: crawl: %s has %d diagnostic(s)", rel, len(diags))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("lifecycle: crawl workspace: %w", err)
	}

	e.mu.Lock()
	for rel := range e.indexedFiles {
		if !seen[rel] {
			if derr := e.deleteFileLocked(rel); derr != nil {
				log.Printf("lifecycle: crawl: %v", derr)
			}
		}
	}
	e.lastReindexTime = scanStart.Add(-time.Second)
	e.mu.Unlock()

	return nil
}

func shouldPruneDir(name string, fragments []string) bool {
	for _, frag := range fragments {
		if strings.Contains(name, frag) {
			return true
		}
	}
	return false
}

// RunPeriodicCrawl blocks, running CrawlWorkspace every interval until ctx
// is canceled. Errors from an individual tick are logged, not fatal: the
// crawl is a correctness backstop, not a one-shot operation.
func (e *Engine) RunPeriodicCrawl(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.CrawlWorkspace(ctx); err != nil {
				log.Printf("lifecycle: periodic crawl: %v", err)
			}
		}
	}
}
