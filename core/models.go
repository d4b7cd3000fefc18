package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDPtr returns a pointer to id. Handy for the optional ID fields.
func IDPtr(id ID) *ID {
	return &id
}

// Document is a question in the corpus.
// The search subsystem only reads documents; the storage layer owns them.
type Document struct {
	Id          ID
	Title       string
	Content     string
	Tags        []string  // Ordered, duplicates allowed
	SubjectId   *ID       // Optional subject the question belongs to
	UserId      *ID       // Optional author
	Upvotes     int
	Views       int
	AnswerCount int
	Solved      bool
	CreatedAt   time.Time // When the question was asked
	UpdatedAt   time.Time // When the record was last written
}

// SameSubject reports whether both documents carry the same non-nil subject.
func (d *Document) SameSubject(other *Document) bool {
	if d == nil || other == nil || d.SubjectId == nil || other.SubjectId == nil {
		return false
	}
	return *d.SubjectId == *other.SubjectId
}

// ScoredCandidate pairs a document with its relevance score for the duration of one search call.
type ScoredCandidate struct {
	Document *Document
	Score    float64
}
