// Package search provides full-text book search using Bleve. The index is
// memory-only and rebuilt from the catalog on startup, matching the
// in-memory lifetime of the rest of the market state.
package search

import (
	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

// BookDocument is the document structure for the Bleve index.
//
// Author names are denormalized into book documents so a single query can
// serve both title and author search. The trade-off is reindexing a book
// when its author changes, which the catalog never does after creation.
type BookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Subject     string `json:"subject"`
	SRP         float64 `json:"srp"`
	CreatedAt   int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"subject":    d.Subject,
		"srp":        d.SRP,
		"created_at": d.CreatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}

	return m
}

// BookToDocument converts a domain Book to a BookDocument.
// The author name is provided by the caller, as the search package
// shouldn't depend on the store.
func BookToDocument(book *domain.Book, authorName string) *BookDocument {
	return &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      authorName,
		Description: book.Description,
		Publisher:   book.Publisher,
		Subject:     string(book.Subject),
		SRP:         book.SRP,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
}
