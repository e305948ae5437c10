package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"

	"github.com/jward/rubydex/internal/occurrence"
)

// ReindexFile replaces every document belonging to filePathID with the
// documents encoded from occs, as a single bleve.Batch. This mirrors the
// teacher's CommitBatch transaction pattern (internal/store/commit.go):
// buffer every change for one unit of work, then apply it atomically,
// except here the unit of work is "one file's worth of occurrences" rather
// than one extraction pass, and the transaction primitive is a bleve batch
// instead of a SQL transaction.
//
// Deletion is always whole-file, per spec.md's invariant: every existing
// document carrying this file_path_id is removed before any of the new
// occurrences are inserted, so a file that now parses to zero occurrences
// correctly ends up with none indexed.
func (s *Store) ReindexFile(filePathID string, occs []occurrence.Occurrence) error {
	existingIDs, err := s.docIDsForFile(filePathID)
	if err != nil {
		return fmt.Errorf("index: reindex file %s: list existing: %w", filePathID, err)
	}

	batch := s.idx.NewBatch()
	for _, id := range existingIDs {
		batch.Delete(id)
	}
	for _, o := range occs {
		doc := encodeDocument(o)
		if err := batch.Index(uuid.NewString(), doc); err != nil {
			return fmt.Errorf("index: reindex file %s: encode: %w", filePathID, err)
		}
	}

	if err := s.idx.Batch(batch); err != nil {
		return fmt.Errorf("index: reindex file %s: commit batch: %w", filePathID, err)
	}
	return nil
}

// docIDsForFile returns the bleve document IDs of every occurrence
// currently indexed under filePathID, for deletion ahead of a reindex.
func (s *Store) docIDsForFile(filePathID string) ([]string, error) {
	q := bleve.NewTermQuery(filePathID)
	q.SetField(FieldFilePathID)

	req := bleve.NewSearchRequest(q)
	req.Size = maxDocsPerFile
	req.Fields = nil

	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search by file_path_id: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// maxDocsPerFile bounds a single reindex's delete scan. A Ruby source file
// large enough to carry more occurrences than this is pathological; raising
// this constant is cheaper than paging the delete query.
const maxDocsPerFile = 100000

func encodeDocument(o occurrence.Occurrence) document {
	return document{
		FilePathID:     o.FilePathID,
		FilePath:       o.FilePath,
		Category:       string(o.Category),
		NodeType:       string(o.NodeType),
		Name:           o.Name,
		FuzzyRubyScope: o.FuzzyRubyScope,
		ClassScope:     o.ClassScope,
		Line:           o.Line,
		StartColumn:    o.StartColumn,
		EndColumn:      o.EndColumn,
		Columns:        o.Columns(),
		UserSpace:      o.UserSpace,
	}
}
