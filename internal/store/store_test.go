package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func testBook(id, title string, subject domain.Subject) *domain.Book {
	return &domain.Book{
		ID:      id,
		Title:   title,
		Subject: subject,
		SRP:     25.0,
	}
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := testBook("book-1", "The Go Programming Language", domain.SubjectComputers)
	require.NoError(t, s.CreateBook(ctx, book))

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", got.Title)
	assert.Equal(t, domain.SubjectComputers, got.Subject)
}

func TestCreateBookDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "First", domain.SubjectArts)))
	err := s.CreateBook(ctx, testBook("book-1", "Second", domain.SubjectArts))
	assert.ErrorIs(t, err, store.ErrBookExists)
}

func TestCreateBookRejectsTooManyRelatedIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := testBook("book-1", "Crowded", domain.SubjectArts)
	book.RelatedIDs = []string{"a", "b", "c", "d", "e", "f"}

	err := s.CreateBook(ctx, book)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestCreateBookRejectsUnknownSubject(t *testing.T) {
	s := newTestStore(t)

	book := testBook("book-1", "Misfiled", domain.Subject("KNITTING"))
	err := s.CreateBook(context.Background(), book)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestGetBookNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "book-missing")
	assert.ErrorIs(t, err, store.ErrBookNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBooksBySubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "Cooking 101", domain.SubjectCooking)))
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", "Knife Skills", domain.SubjectCooking)))
	require.NoError(t, s.CreateBook(ctx, testBook("book-3", "Go Routines", domain.SubjectComputers)))

	cooking, err := s.BooksBySubject(ctx, domain.SubjectCooking)
	require.NoError(t, err)
	assert.Len(t, cooking, 2)

	travel, err := s.BooksBySubject(ctx, domain.SubjectTravel)
	require.NoError(t, err)
	assert.Empty(t, travel)
}

func TestRelatedBooksSkipsDanglingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	related := testBook("book-2", "Companion Volume", domain.SubjectArts)
	require.NoError(t, s.CreateBook(ctx, related))

	book := testBook("book-1", "Main Volume", domain.SubjectArts)
	book.RelatedIDs = []string{"book-2", "book-gone"}
	require.NoError(t, s.CreateBook(ctx, book))

	got, err := s.RelatedBooks(ctx, "book-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "book-2", got[0].ID)
}

func TestUpdateBookPresentation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "Pretty Cover", domain.SubjectArts)))

	now := time.Now()
	updated, err := s.UpdateBookPresentation(ctx, "book-1", "img.png", "thumb.png", now)
	require.NoError(t, err)
	assert.Equal(t, "img.png", updated.Image)
	assert.Equal(t, "thumb.png", updated.Thumbnail)

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "img.png", got.Image)
}

func TestRandomBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.RandomBook(ctx)
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "Only One", domain.SubjectArts)))

	got, err := s.RandomBook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "book-1", got.ID)
}
