package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

const authorPrefix = "author:"

// Author Operations

// CreateAuthor creates a new author.
func (s *Store) CreateAuthor(ctx context.Context, author *domain.Author) error {
	key := []byte(authorPrefix + author.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check author exists: %w", err)
	}
	if exists {
		return ErrAuthorExists
	}

	if err := s.set(key, author); err != nil {
		return fmt.Errorf("create author: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "author created",
			slog.String("id", author.ID),
			slog.String("name", author.FullName()),
		)
	}
	return nil
}

// GetAuthor retrieves an author by ID.
func (s *Store) GetAuthor(_ context.Context, id string) (*domain.Author, error) {
	key := []byte(authorPrefix + id)

	var author domain.Author
	err := s.get(key, &author)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}
	return &author, nil
}
