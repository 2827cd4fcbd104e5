package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
)

const (
	bookPrefix          = "book:"
	bookBySubjectPrefix = "idx:books:subject:"
)

// Book Operations

// CreateBook creates a new book. Related ids are capped at
// domain.MaxRelatedBooks; anything beyond is rejected.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if len(book.RelatedIDs) > domain.MaxRelatedBooks {
		return apperrors.InvalidArgumentf("book %s carries %d related ids, max is %d",
			book.ID, len(book.RelatedIDs), domain.MaxRelatedBooks)
	}
	if !book.Subject.Valid() {
		return apperrors.InvalidArgumentf("unknown subject %q", book.Subject)
	}

	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	// Use a transaction to create the book and its subject index atomically.
	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		subjectKey := []byte(bookBySubjectPrefix + string(book.Subject) + ":" + book.ID)
		return txn.Set(subjectKey, []byte(book.ID))
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	s.mu.Lock()
	s.bookIDs = append(s.bookIDs, book.ID)
	s.mu.Unlock()

	if s.searchIndexer != nil {
		authorName := ""
		if author, err := s.GetAuthor(ctx, book.AuthorID); err == nil {
			authorName = author.FullName()
		}
		if err := s.searchIndexer.IndexBook(ctx, book, authorName); err != nil && s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "book index update failed",
				slog.String("id", book.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("subject", string(book.Subject)),
		)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	key := []byte(bookPrefix + id)

	var book domain.Book
	err := s.get(key, &book)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// ListBooks returns every book in the catalog.
func (s *Store) ListBooks(_ context.Context) ([]domain.Book, error) {
	var books []domain.Book
	err := scanPrefix(s, []byte(bookPrefix), func(b *domain.Book) error {
		books = append(books, *b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// BooksBySubject returns all books filed under the given subject.
func (s *Store) BooksBySubject(ctx context.Context, subject domain.Subject) ([]domain.Book, error) {
	if !subject.Valid() {
		return nil, apperrors.InvalidArgumentf("unknown subject %q", subject)
	}

	prefix := []byte(bookBySubjectPrefix + string(subject) + ":")

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("books by subject: %w", err)
	}

	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, nil
}

// RelatedBooks resolves the related-books list of the given book.
// Dangling related ids are skipped rather than failing the whole lookup.
func (s *Store) RelatedBooks(ctx context.Context, bookID string) ([]domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	related := make([]domain.Book, 0, len(book.RelatedIDs))
	for _, id := range book.RelatedIDs {
		r, err := s.GetBook(ctx, id)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				continue
			}
			return nil, err
		}
		related = append(related, *r)
	}
	return related, nil
}

// UpdateBookPresentation replaces the admin-updatable presentation fields
// (image, thumbnail) of a book. All other book fields are immutable.
func (s *Store) UpdateBookPresentation(ctx context.Context, bookID, image, thumbnail string, now time.Time) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.Image = image
	book.Thumbnail = thumbnail
	book.UpdatedAt = now

	if err := s.set([]byte(bookPrefix+book.ID), book); err != nil {
		return nil, fmt.Errorf("update book presentation: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book presentation updated",
			slog.String("id", book.ID),
		)
	}
	return book, nil
}
