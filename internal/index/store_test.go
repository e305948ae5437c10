package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/rubydex/internal/index"
	"github.com/jward/rubydex/internal/occurrence"
)

func TestFilePathID_Deterministic(t *testing.T) {
	a := index.FilePathID("lib/foo.rb")
	b := index.FilePathID("lib/foo.rb")
	c := index.FilePathID("lib/bar.rb")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"lib", "foo.rb"}, index.SplitPath("lib/foo.rb"))
	assert.Equal(t, []string{"lib", "foo.rb"}, index.SplitPath("/lib/foo.rb"))
	assert.Nil(t, index.SplitPath(""))
}

func TestReindexFile_WholeFileDeleteThenInsert(t *testing.T) {
	s, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer s.Close()

	fpID := index.FilePathID("lib/foo.rb")
	first := []occurrence.Occurrence{
		{FilePathID: fpID, FilePath: []string{"lib", "foo.rb"}, Category: occurrence.Assignment, NodeType: occurrence.Class, Name: "Foo", Line: 0, StartColumn: 6, EndColumn: 8},
	}
	require.NoError(t, s.ReindexFile(fpID, first))

	count, err := s.Index().DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	second := []occurrence.Occurrence{
		{FilePathID: fpID, FilePath: []string{"lib", "foo.rb"}, Category: occurrence.Assignment, NodeType: occurrence.Class, Name: "Bar", Line: 0, StartColumn: 6, EndColumn: 8},
		{FilePathID: fpID, FilePath: []string{"lib", "foo.rb"}, Category: occurrence.Assignment, NodeType: occurrence.Def, Name: "baz", Line: 1, StartColumn: 6, EndColumn: 9},
	}
	require.NoError(t, s.ReindexFile(fpID, second))

	count, err = s.Index().DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "reindex must remove the previous generation's documents")
}

func TestReindexFile_EmptyOccurrencesRemovesAll(t *testing.T) {
	s, err := index.NewStore(index.AllocationRAM)
	require.NoError(t, err)
	defer s.Close()

	fpID := index.FilePathID("lib/empty.rb")
	require.NoError(t, s.ReindexFile(fpID, []occurrence.Occurrence{
		{FilePathID: fpID, FilePath: []string{"lib", "empty.rb"}, Category: occurrence.Assignment, NodeType: occurrence.Class, Name: "X"},
	}))
	require.NoError(t, s.ReindexFile(fpID, nil))

	count, err := s.Index().DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
