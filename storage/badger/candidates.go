package badger

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
)

// Search returns documents matching the criteria.
// A subject filter scans that subject's index; otherwise every document is scanned.
func (r *DocumentRepository) Search(ctx context.Context, criteria *core.SearchCriteria) ([]*core.Document, error) {
	if criteria == nil {
		return nil, storage.ErrInvalidQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, dataAccessError(err, "search documents")
	}

	var matches []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		visit := func(doc *core.Document) {
			if matchesCriteria(doc, criteria) {
				matches = append(matches, doc)
			}
		}
		if criteria.SubjectId != nil {
			return scanSubject(tx, *criteria.SubjectId, visit)
		}
		return scanAll(tx, visit)
	}, false)
	if err != nil {
		return nil, dataAccessError(err, "search documents")
	}

	sortDocuments(matches, criteria.Sort)
	return pageOf(matches, criteria.Limit, criteria.Offset), nil
}

// FindPage returns one page of all documents, newest first.
func (r *DocumentRepository) FindPage(ctx context.Context, limit, offset int) ([]*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, dataAccessError(err, "find page")
	}
	if limit <= 0 {
		return []*core.Document{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := documentDateKeyPrefix()
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible date key so reverse iteration starts at the newest entry
		seekKey := append(append([]byte{}, prefix...), 0xFF)

		skipped := 0
		for iter.Seek(seekKey); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			doc, err := readIndexedDocument(tx, iter.Item())
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, dataAccessError(err, "find page limit=%d offset=%d", limit, offset)
	}
	if results == nil {
		results = []*core.Document{}
	}
	return results, nil
}

// scanAll visits every stored document.
func scanAll(tx *badger.Txn, visit func(*core.Document)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = documentKeyPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var doc *core.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return err
		}
		visit(doc)
	}
	return nil
}

// scanSubject visits the documents of one subject through the subject index.
func scanSubject(tx *badger.Txn, subjectID core.ID, visit func(*core.Document)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialDocumentSubjectKey(subjectID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		doc, err := readIndexedDocument(tx, iter.Item())
		if err != nil {
			return err
		}
		if doc != nil {
			visit(doc)
		}
	}
	return nil
}

// matchesCriteria applies every filter of the criteria to one document.
func matchesCriteria(doc *core.Document, c *core.SearchCriteria) bool {
	if c.SubjectId != nil && (doc.SubjectId == nil || *doc.SubjectId != *c.SubjectId) {
		return false
	}
	if c.UserId != nil && (doc.UserId == nil || *doc.UserId != *c.UserId) {
		return false
	}
	if c.OnlyUnanswered && doc.AnswerCount > 0 {
		return false
	}
	if c.OnlySolved && !doc.Solved {
		return false
	}
	if !hasAllTags(doc, c.Tags) {
		return false
	}
	return matchesText(doc, c.SearchText, c.TextMatch)
}

// matchesText reports whether the document contains the search text.
// Matching is case-insensitive; blank text matches everything.
func matchesText(doc *core.Document, text string, mode core.TextMatch) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}

	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)

	if mode != core.TextMatchAnyTerm {
		return strings.Contains(title, needle) || strings.Contains(content, needle)
	}

	for _, term := range strings.Fields(needle) {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			return true
		}
		for _, tag := range doc.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
	}
	return false
}

// hasAllTags reports whether the document carries every requested tag, ignoring case.
func hasAllTags(doc *core.Document, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	have := make(map[string]bool, len(doc.Tags))
	for _, tag := range doc.Tags {
		have[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	for _, tag := range tags {
		if !have[strings.ToLower(strings.TrimSpace(tag))] {
			return false
		}
	}
	return true
}

// sortDocuments orders documents by the sort option. Ties fall back to ID.
func sortDocuments(docs []*core.Document, sort core.SortOption) {
	slices.SortStableFunc(docs, func(a, b *core.Document) int {
		var c int
		switch sort {
		case core.SortOldest:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case core.SortMostUpvoted:
			c = cmp.Compare(b.Upvotes, a.Upvotes)
		case core.SortMostViewed:
			c = cmp.Compare(b.Views, a.Views)
		case core.SortMostAnswered:
			c = cmp.Compare(b.AnswerCount, a.AnswerCount)
		default:
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
}

// pageOf applies offset and limit. A non-positive limit yields no documents.
func pageOf(docs []*core.Document, limit, offset int) []*core.Document {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(docs) {
		return []*core.Document{}
	}
	return docs[offset : offset+min(limit, len(docs)-offset)]
}
