package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestDocumentBasics(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := &core.Document{
		Title:   "How do I reverse a slice?",
		Content: "Looking for an idiomatic way",
		Tags:    []string{"go", "slices"},
	}

	added, err := repo.AddDocuments(ctx, doc)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].CreatedAt.IsZero())
	assert.False(t, added[0].UpdatedAt.IsZero())

	retrieved, err := repo.GetDocument(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "How do I reverse a slice?", retrieved.Title)
	assert.Equal(t, []string{"go", "slices"}, retrieved.Tags)

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddDocuments_ExplicitID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.AddDocuments(ctx, &core.Document{Id: 500, Title: "Explicit"})
	require.NoError(t, err)

	got, err := repo.GetDocument(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, "Explicit", got.Title)

	_, err = repo.AddDocuments(ctx, &core.Document{Id: 500, Title: "Again"})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestAddDocuments_UniqueIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	docs := []*core.Document{{Title: "one"}, {Title: "two"}, {Title: "three"}}
	added, err := repo.AddDocuments(ctx, docs...)
	require.NoError(t, err)

	seen := map[core.ID]bool{}
	for _, doc := range added {
		assert.False(t, seen[doc.Id], "duplicate id %d", doc.Id)
		seen[doc.Id] = true
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetDocument(context.Background(), 12345)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	assert.False(t, errors.Is(err, storage.ErrDataAccess))
}

func TestGetDocuments_SkipsMissing(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddDocuments(ctx, &core.Document{Title: "present"})
	require.NoError(t, err)

	docs, err := repo.GetDocuments(ctx, added[0].Id, 99999)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "present", docs[0].Title)
}

func TestUpdateDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddDocuments(ctx, &core.Document{Title: "Original", SubjectId: core.IDPtr(1)})
	require.NoError(t, err)
	doc := added[0]

	doc.Title = "Edited"
	doc.SubjectId = core.IDPtr(2)
	doc.AnswerCount = 3
	_, err = repo.UpdateDocuments(ctx, doc)
	require.NoError(t, err)

	got, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, 3, got.AnswerCount)

	// Subject index follows the update
	oldSubject, err := repo.Search(ctx, core.NewSearchCriteria(core.WithSubject(1)))
	require.NoError(t, err)
	assert.Empty(t, oldSubject)

	newSubject, err := repo.Search(ctx, core.NewSearchCriteria(core.WithSubject(2)))
	require.NoError(t, err)
	require.Len(t, newSubject, 1)
	assert.Equal(t, doc.Id, newSubject[0].Id)
}

func TestUpdateDocuments_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpdateDocuments(context.Background(), &core.Document{Id: 77, Title: "ghost"})
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestDeleteDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	added, err := repo.AddDocuments(ctx,
		&core.Document{Title: "keep", SubjectId: core.IDPtr(4)},
		&core.Document{Title: "drop", SubjectId: core.IDPtr(4)},
	)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDocuments(ctx, added[1].Id))

	_, err = repo.GetDocument(ctx, added[1].Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	page, err := repo.FindPage(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "keep", page[0].Title)

	bySubject, err := repo.Search(ctx, core.NewSearchCriteria(core.WithSubject(4)))
	require.NoError(t, err)
	require.Len(t, bySubject, 1)

	err = repo.DeleteDocuments(ctx, added[1].Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestRepository_ClosedBackend(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	defer repo.Close()

	ctx := context.Background()

	_, err = repo.Search(ctx, core.NewSearchCriteria(core.WithSearchText("anything")))
	assert.True(t, errors.Is(err, storage.ErrDataAccess))

	_, err = repo.FindPage(ctx, 5, 0)
	assert.True(t, errors.Is(err, storage.ErrDataAccess))

	_, err = repo.AddDocuments(ctx, &core.Document{Title: "late"})
	assert.True(t, errors.Is(err, storage.ErrDataAccess))
}

func TestFindPage(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-10 * time.Hour)
	for i, title := range []string{"first", "second", "third", "fourth", "fifth"} {
		_, err := repo.AddDocuments(ctx, &core.Document{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		page, err := repo.FindPage(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "fifth", page[0].Title)
		assert.Equal(t, "fourth", page[1].Title)
	})

	t.Run("offset", func(t *testing.T) {
		page, err := repo.FindPage(ctx, 2, 3)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "second", page[0].Title)
		assert.Equal(t, "first", page[1].Title)
	})

	t.Run("offset past end", func(t *testing.T) {
		page, err := repo.FindPage(ctx, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		page, err := repo.FindPage(ctx, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}
