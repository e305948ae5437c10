package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/rubydex/internal/index"
	"github.com/jward/rubydex/internal/occurrence"
	"github.com/jward/rubydex/internal/parseadapter"
	"github.com/jward/rubydex/internal/query"
)

func indexSource(t *testing.T, store *index.Store, relPath, src string) string {
	t.Helper()
	p := parseadapter.New()
	tree, diags, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Empty(t, diags)
	defer tree.Close()

	fpID := index.FilePathID(relPath)
	s := occurrence.New(fpID, index.SplitPath(relPath), true, false)
	occs := s.Serialize(tree.Root(), tree.Source)
	require.NoError(t, store.ReindexFile(fpID, occs))
	return fpID
}

func TestDefinitions_LocalVariable(t *testing.T) {
	store, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer store.Close()

	fpID := indexSource(t, store, "lib/foo.rb", "def m\n  x = 1\n  puts x\nend\n")

	c := query.New(store)
	hits, err := c.Definitions(query.Point{FilePathID: fpID, Line: 2, Column: 7})
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	found := false
	for _, h := range hits {
		if h.Name == "x" && h.NodeType == occurrence.Lvasgn {
			found = true
		}
	}
	assert.True(t, found, "expected to resolve x's local assignment, got %+v", hits)
}

func TestDefinitions_NoAnchorReturnsEmpty(t *testing.T) {
	store, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer store.Close()

	fpID := indexSource(t, store, "lib/foo.rb", "x = 1\n")

	c := query.New(store)
	hits, err := c.Definitions(query.Point{FilePathID: fpID, Line: 99, Column: 0})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestReferences_FindsAssignmentAndUsage(t *testing.T) {
	store, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer store.Close()

	fpID := indexSource(t, store, "lib/foo.rb", "def m\n  x = 1\n  puts x\nend\n")

	c := query.New(store)
	hits, err := c.References(query.Point{FilePathID: fpID, Line: 2, Column: 7})
	require.NoError(t, err)

	var assignments, usages int
	for _, h := range hits {
		switch h.Category {
		case occurrence.Assignment:
			assignments++
		case occurrence.Usage:
			usages++
		}
	}
	assert.GreaterOrEqual(t, assignments, 1)
	assert.GreaterOrEqual(t, usages, 1)
}

func TestWorkspaceSymbols_FiltersByPrefixAndType(t *testing.T) {
	store, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer store.Close()

	indexSource(t, store, "lib/foo.rb", "class FooBar\n  def run\n  end\nend\n")

	c := query.New(store)
	hits, err := c.WorkspaceSymbols("Foo")
	require.NoError(t, err)

	found := false
	for _, h := range hits {
		if h.Name == "FooBar" && h.NodeType == occurrence.Class {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWorkspaceSymbols_DoesNotMatchLocalVariables(t *testing.T) {
	store, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer store.Close()

	indexSource(t, store, "lib/foo.rb", "foo_local = 1\n")

	c := query.New(store)
	hits, err := c.WorkspaceSymbols("foo")
	require.NoError(t, err)

	for _, h := range hits {
		assert.NotEqual(t, "foo_local", h.Name)
	}
}
