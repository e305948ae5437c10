// Package config loads rubydex.yaml, the ambient configuration surface for
// the indexer lifecycle's init options (allocation strategy, include dirs,
// gem indexing, diagnostics reporting).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jward/rubydex/internal/index"
)

// IncludeDir is one extra directory to index alongside the workspace, e.g.
// a vendored library checked into the repo outside the gem path.
// InterfaceOnly defaults to true (per spec.md §6) when the YAML omits the
// key; a *bool distinguishes "omitted" from an explicit `false`.
type IncludeDir struct {
	Path          string `yaml:"path"`
	InterfaceOnly *bool  `yaml:"interface_only"`
}

// InterfaceOnlyOrDefault resolves the effective interface_only value.
func (d IncludeDir) InterfaceOnlyOrDefault() bool {
	if d.InterfaceOnly == nil {
		return true
	}
	return *d.InterfaceOnly
}

// Config mirrors spec.md §6's init options.
type Config struct {
	AllocationType    index.AllocationType `yaml:"allocationType"`
	IncludeDirs       []IncludeDir         `yaml:"includeDirs"`
	IndexGems         bool                 `yaml:"indexGems"`
	ReportDiagnostics bool                 `yaml:"reportDiagnostics"`
}

// Default returns the spec-mandated defaults: RAM allocation, no extra
// include dirs, gem indexing and diagnostics both on.
func Default() *Config {
	return &Config{
		AllocationType:    index.AllocationRAM,
		IncludeDirs:       nil,
		IndexGems:         true,
		ReportDiagnostics: true,
	}
}

// Load reads a YAML config file, applying defaults for any field the file
// omits. A missing file is an error: callers that want rubydex.yaml to
// be optional should check os.IsNotExist themselves before calling Load, or
// call Default() directly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
