package storage

import (
	"context"

	"github.com/poiesic/qasearch/core"
)

// CandidateSource supplies coarse candidate sets to the search engine.
// Implementations must be thread-safe and support concurrent access.
type CandidateSource interface {
	// Search returns documents matching the criteria, ordered by criteria.Sort
	// and paged by criteria.Limit and criteria.Offset.
	Search(ctx context.Context, criteria *core.SearchCriteria) ([]*core.Document, error)

	// FindPage returns one page of all documents, newest first.
	FindPage(ctx context.Context, limit, offset int) ([]*core.Document, error)
}

// DocumentRepository provides operations for managing question documents.
type DocumentRepository interface {
	CandidateSource

	// AddDocuments adds one or more documents to storage.
	// Documents with ID=0 get a new ID from the sequence; others keep theirs.
	// Sets CreatedAt if not already set and UpdatedAt always.
	// Returns the documents with IDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs, including their indices.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
