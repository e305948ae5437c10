package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/rubydex/internal/config"
	"github.com/jward/rubydex/internal/index"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, index.AllocationRAM, cfg.AllocationType)
	assert.True(t, cfg.IndexGems)
	assert.True(t, cfg.ReportDiagnostics)
	assert.Empty(t, cfg.IncludeDirs)
}

func TestLoad_AppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubydex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indexGems: false\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.IndexGems)
	assert.Equal(t, index.AllocationRAM, cfg.AllocationType)
	assert.True(t, cfg.ReportDiagnostics)
}

func TestLoad_IncludeDirsInterfaceOnlyDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubydex.yaml")
	yamlContent := "includeDirs:\n  - path: vendor/thing\n  - path: vendor/other\n    interface_only: false\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.IncludeDirs, 2)

	assert.True(t, cfg.IncludeDirs[0].InterfaceOnlyOrDefault())
	assert.False(t, cfg.IncludeDirs[1].InterfaceOnlyOrDefault())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
