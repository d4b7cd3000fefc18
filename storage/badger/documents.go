package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
// Closing after the backend is a no-op.
func (r *DocumentRepository) Close() error {
	if r.backend.IsClosed() {
		return nil
	}
	return r.idSeq.Release()
}

// AddDocuments adds one or more documents to storage.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, doc := range docs {
			if doc.Id == 0 {
				id, err := r.nextFreeID(tx)
				if err != nil {
					return err
				}
				doc.Id = id
			} else {
				existing, err := readDocument(tx, makeDocumentKey(doc.Id))
				if err != nil {
					return err
				}
				if existing != nil {
					return storage.ErrDuplicateKey
				}
			}

			if doc.CreatedAt.IsZero() {
				doc.CreatedAt = now
			}
			doc.UpdatedAt = now

			if err := writeDocument(tx, doc); err != nil {
				return err
			}
			if err := writeIndices(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, dataAccessError(err, "add %d documents", len(docs))
}

// UpdateDocuments updates existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			// Read old document to detect index changes
			old, err := readDocument(tx, makeDocumentKey(doc.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			doc.UpdatedAt = time.Now().UTC()
			if err := writeDocument(tx, doc); err != nil {
				return err
			}

			if !old.CreatedAt.Equal(doc.CreatedAt) || !sameOptionalID(old.SubjectId, doc.SubjectId) {
				if err := deleteIndices(tx, old); err != nil {
					return err
				}
				if err := writeIndices(tx, doc); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return docs, dataAccessError(err, "update %d documents", len(docs))
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			doc, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := deleteIndices(tx, doc); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return dataAccessError(err, "delete %d documents", len(ids))
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, dataAccessError(err, "get document %d", id)
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, dataAccessError(err, "get %d documents", len(ids))
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = documentKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, dataAccessError(err, "count documents")
}

// Helper methods

// nextFreeID draws IDs from the sequence until one is not taken.
func (r *DocumentRepository) nextFreeID(tx *badger.Txn) (core.ID, error) {
	for {
		next, err := r.idSeq.Next()
		if err != nil {
			return 0, err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if next == 0 {
			continue
		}
		existing, err := readDocument(tx, makeDocumentKey(core.ID(next)))
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return core.ID(next), nil
		}
	}
}

// readDocument reads a document from the transaction. Returns nil, nil when absent.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

// readIndexedDocument resolves an index entry's value to the document it points at.
func readIndexedDocument(tx *badger.Txn, item *badger.Item) (*core.Document, error) {
	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}
	return readDocument(tx, makeDocumentKey(id))
}

func writeDocument(tx *badger.Txn, doc *core.Document) error {
	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return tx.Set(makeDocumentKey(doc.Id), value)
}

// writeIndices adds the date and subject index entries for a document.
func writeIndices(tx *badger.Txn, doc *core.Document) error {
	idValue := storage.MarshalID(doc.Id)
	if err := tx.Set(makeDocumentDateKey(doc.CreatedAt, doc.Id), idValue); err != nil {
		return err
	}
	if doc.SubjectId != nil {
		if err := tx.Set(makeDocumentSubjectKey(*doc.SubjectId, doc.Id), idValue); err != nil {
			return err
		}
	}
	return nil
}

// deleteIndices removes the date and subject index entries for a document.
func deleteIndices(tx *badger.Txn, doc *core.Document) error {
	if err := tx.Delete(makeDocumentDateKey(doc.CreatedAt, doc.Id)); err != nil {
		return err
	}
	if doc.SubjectId != nil {
		if err := tx.Delete(makeDocumentSubjectKey(*doc.SubjectId, doc.Id)); err != nil {
			return err
		}
	}
	return nil
}

func sameOptionalID(a, b *core.ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
