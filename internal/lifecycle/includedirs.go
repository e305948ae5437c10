package lifecycle

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/rubydex/internal/config"
)

// includeDirSkipNames additionally prunes vendor, per spec.md §4.5 item 2.
var includeDirSkipNames = append(append([]string{}, crawlSkipNames...), "vendor")

// IndexIncludeDirs implements spec.md §4.5 item 2: walk each configured
// include directory once, indexing every .rb file with user_space = false
// and the configured interface_only mode. Idempotent — a second call is a
// no-op once the first has completed.
func (e *Engine) IndexIncludeDirs(ctx context.Context) error {
	e.mu.Lock()
	if e.includeDirsIndexed {
		e.mu.Unlock()
		return nil
	}
	dirs := append([]config.IncludeDir{}, e.cfg.IncludeDirs...)
	base := e.workspacePath
	e.mu.Unlock()

	for _, dir := range dirs {
		root := dir.Path
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		if err := e.indexTree(ctx, root, dir.InterfaceOnlyOrDefault(), false); err != nil {
			log.Printf("lifecycle: include dir %s: %v", dir.Path, err)
		}
	}

	e.mu.Lock()
	e.includeDirsIndexed = true
	e.mu.Unlock()
	return nil
}

// indexTree walks root, indexing every .rb file with the given interface-
// only and user-space settings. Dependency code (gems, include dirs) is
// identified by its absolute path rather than a path relative to the
// workspace: the original implementation derives file_path_id by stripping
// the workspace path prefix from the file's absolute path, which is a
// no-op for any file outside the workspace tree, so its file_path_id is
// effectively keyed on the absolute path. This is preserved here rather
// than "fixed", since resultmap's location reconstruction (prepend nothing,
// just a leading "/") depends on file_path already being the absolute path
// split on "/".
func (e *Engine) indexTree(ctx context.Context, root string, interfaceOnly, userSpace bool) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("lifecycle: walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if shouldPruneDir(d.Name(), includeDirSkipNames) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".rb") {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("lifecycle: read %s: %v", path, err)
			return nil
		}

		e.mu.Lock()
		_, rerr := e.reindexFileLocked(ctx, abs, content, userSpace, interfaceOnly)
		e.mu.Unlock()
		if rerr != nil {
			log.Printf("lifecycle: index %s: %v", path, rerr)
		}
		return nil
	})
}
