package lifecycle

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// gemVersionLine matches a Gemfile.lock dependency line. Four leading
// spaces indicates a gem (not a platform or bundled-with directive), per
// Bundler's own lockfile parser.
var gemVersionLine = regexp.MustCompile(`^\s{4}([a-zA-Z\d.\-_]+)\s\(([\d\w.\-_]+)\)`)

// IndexGems implements spec.md §4.5 item 3: parse Gemfile.lock, discover the
// gem home via `gem environment home`, and index the Ruby standard library
// plus every locked gem's source directory in interface-only mode. A
// missing or unreadable Gemfile.lock is a soft no-op, not an error.
func (e *Engine) IndexGems(ctx context.Context) error {
	e.mu.Lock()
	if e.gemsIndexed || !e.cfg.IndexGems {
		e.mu.Unlock()
		return nil
	}
	workspacePath := e.workspacePath
	e.mu.Unlock()

	lockPath := filepath.Join(workspacePath, "Gemfile.lock")
	contents, err := os.ReadFile(lockPath)
	if err != nil {
		log.Printf("lifecycle: Gemfile.lock not found, skipping gem indexing: %v", err)
		e.mu.Lock()
		e.gemsIndexed = true
		e.mu.Unlock()
		return nil
	}

	gemHome, err := gemEnvironmentHome(workspacePath)
	if err != nil {
		log.Printf("lifecycle: gem environment home: %v", err)
		e.mu.Lock()
		e.gemsIndexed = true
		e.mu.Unlock()
		return nil
	}

	paths := []string{rubyStdlibPath(gemHome)}
	for _, line := range strings.Split(string(contents), "\n") {
		m := gemVersionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, version := m[1], m[2]
		paths = append(paths, filepath.Join(gemHome, "gems", fmt.Sprintf("%s-%s", name, version)))
	}

	for _, p := range paths {
		if err := e.indexTree(ctx, p, true, false); err != nil {
			log.Printf("lifecycle: index gem path %s: %v", p, err)
		}
	}

	e.mu.Lock()
	e.gemsIndexed = true
	e.mu.Unlock()
	return nil
}

// gemEnvironmentHome shells out to `gem environment home`, run from the
// workspace directory so any local rbenv/rvm version file is respected.
func gemEnvironmentHome(workspacePath string) (string, error) {
	cmd := exec.Command("gem", "environment", "home")
	cmd.Dir = workspacePath
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("gem environment home: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// rubyStdlibPath derives the Ruby standard-library source path from the gem
// home, matching the original implementation's behavior of replacing every
// "gems/" substring in the path (gem homes are conventionally
// ".../lib/ruby/gems/<version>", yielding ".../lib/ruby/<version>").
func rubyStdlibPath(gemHome string) string {
	return strings.ReplaceAll(gemHome, "gems/", "")
}
