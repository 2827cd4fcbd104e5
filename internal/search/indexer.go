package search

import (
	"context"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

// Indexer adapts a BookIndex to the catalog's indexing hook, so book
// writes keep the index current without the catalog knowing about bleve.
type Indexer struct {
	index *BookIndex
}

// NewIndexer wraps an index for catalog wiring.
func NewIndexer(index *BookIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexBook indexes a single book.
func (ix *Indexer) IndexBook(_ context.Context, book *domain.Book, authorName string) error {
	return ix.index.IndexDocument(BookToDocument(book, authorName))
}

// DeleteBook removes a book from the index.
func (ix *Indexer) DeleteBook(_ context.Context, bookID string) error {
	return ix.index.DeleteDocument(bookID)
}
