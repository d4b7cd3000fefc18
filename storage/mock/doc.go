// Package mock provides a test double for storage.CandidateSource.
//
// MockCandidateSource serves a fixed document list by default and lets
// tests inject failures or custom candidate sets through function fields:
//
//	source := mock.NewMockCandidateSource(docs...)
//	source.SearchFunc = func(ctx context.Context, c *core.SearchCriteria) ([]*core.Document, error) {
//	    return nil, errors.New("backend down")
//	}
//
// Every call is counted and the criteria passed to Search are recorded so
// tests can assert how the searcher queried its source.
package mock
