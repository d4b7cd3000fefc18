package mock

import (
	"context"
	"sync"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
)

// MockCandidateSource is a test double for storage.CandidateSource.
type MockCandidateSource struct {
	// Docs is the default candidate set returned by Search and FindPage.
	Docs []*core.Document

	// SearchFunc is called by Search if set.
	SearchFunc func(ctx context.Context, criteria *core.SearchCriteria) ([]*core.Document, error)

	// FindPageFunc is called by FindPage if set.
	FindPageFunc func(ctx context.Context, limit, offset int) ([]*core.Document, error)

	mu            sync.Mutex
	searchCalls   int
	findPageCalls int
	criteria      []core.SearchCriteria
}

var _ storage.CandidateSource = (*MockCandidateSource)(nil)

// NewMockCandidateSource creates a source serving docs.
func NewMockCandidateSource(docs ...*core.Document) *MockCandidateSource {
	return &MockCandidateSource{Docs: docs}
}

// Search records the criteria and returns Docs paged by the criteria.
func (m *MockCandidateSource) Search(ctx context.Context, criteria *core.SearchCriteria) ([]*core.Document, error) {
	m.mu.Lock()
	m.searchCalls++
	if criteria != nil {
		m.criteria = append(m.criteria, *criteria)
	}
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, criteria)
	}
	if criteria == nil {
		return nil, storage.ErrInvalidQuery
	}
	return page(m.Docs, criteria.Limit, criteria.Offset), nil
}

// FindPage returns one page of Docs in their stored order.
func (m *MockCandidateSource) FindPage(ctx context.Context, limit, offset int) ([]*core.Document, error) {
	m.mu.Lock()
	m.findPageCalls++
	m.mu.Unlock()

	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, limit, offset)
	}
	return page(m.Docs, limit, offset), nil
}

// SearchCalls returns the number of Search calls.
func (m *MockCandidateSource) SearchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

// FindPageCalls returns the number of FindPage calls.
func (m *MockCandidateSource) FindPageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findPageCalls
}

// Criteria returns copies of every criteria passed to Search, in call order.
func (m *MockCandidateSource) Criteria() []core.SearchCriteria {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.SearchCriteria, len(m.criteria))
	copy(out, m.criteria)
	return out
}

// Reset clears call counts, recorded criteria and injected functions.
func (m *MockCandidateSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = 0
	m.findPageCalls = 0
	m.criteria = nil
	m.SearchFunc = nil
	m.FindPageFunc = nil
}

func page(docs []*core.Document, limit, offset int) []*core.Document {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(docs) {
		return []*core.Document{}
	}
	end := offset + min(limit, len(docs)-offset)
	out := make([]*core.Document, end-offset)
	copy(out, docs[offset:end])
	return out
}
