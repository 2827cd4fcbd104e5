package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	"github.com/bookmarketapp/bookmarket-server/internal/search"
)

func newTestIndex(t *testing.T) *search.BookIndex {
	t.Helper()

	idx, err := search.NewBookIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})
	return idx
}

func indexBook(t *testing.T, idx *search.BookIndex, id, title, author string, subject domain.Subject) {
	t.Helper()

	book := &domain.Book{
		ID:        id,
		Title:     title,
		Subject:   subject,
		CreatedAt: time.Now(),
	}
	require.NoError(t, idx.IndexDocument(search.BookToDocument(book, author)))
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	indexBook(t, idx, "book-1", "The Trial", "Franz Kafka", domain.SubjectLiterature)
	indexBook(t, idx, "book-2", "Cooking for Two", "Jane Doe", domain.SubjectCooking)

	result, err := idx.Search(context.Background(), search.Params{
		Query: "trial",
		Field: search.FieldTitle,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "book-1", result.Hits[0].ID)
}

func TestSearchByAuthor(t *testing.T) {
	idx := newTestIndex(t)
	indexBook(t, idx, "book-1", "The Trial", "Franz Kafka", domain.SubjectLiterature)
	indexBook(t, idx, "book-2", "The Castle", "Franz Kafka", domain.SubjectLiterature)
	indexBook(t, idx, "book-3", "Cooking for Two", "Jane Doe", domain.SubjectCooking)

	result, err := idx.Search(context.Background(), search.Params{
		Query: "kafka",
		Field: search.FieldAuthor,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestSearchSubjectFilter(t *testing.T) {
	idx := newTestIndex(t)
	indexBook(t, idx, "book-1", "History of Bread", "A. Baker", domain.SubjectHistory)
	indexBook(t, idx, "book-2", "Bread at Home", "B. Baker", domain.SubjectCooking)

	result, err := idx.Search(context.Background(), search.Params{
		Query:   "bread",
		Field:   search.FieldTitle,
		Subject: string(domain.SubjectCooking),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "book-2", result.Hits[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	idx := newTestIndex(t)
	indexBook(t, idx, "book-1", "Ephemeral", "Nobody", domain.SubjectArts)

	require.NoError(t, idx.DeleteDocument("book-1"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestRebuildEmptiesIndex(t *testing.T) {
	idx := newTestIndex(t)
	indexBook(t, idx, "book-1", "Gone Soon", "Nobody", domain.SubjectArts)

	require.NoError(t, idx.Rebuild())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexDocumentsBatch(t *testing.T) {
	idx := newTestIndex(t)

	docs := []*search.BookDocument{
		{ID: "book-1", Title: "Alpha", Subject: string(domain.SubjectArts)},
		{ID: "book-2", Title: "Beta", Subject: string(domain.SubjectArts)},
		{ID: "book-3", Title: "Gamma", Subject: string(domain.SubjectArts)},
	}
	require.NoError(t, idx.IndexDocuments(docs))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}
