package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

const (
	ratingPrefix = "rating:"
	// Secondary index keyed by book, pointing back at the primary key.
	ratingByBookPrefix = "idx:ratings:book:"
)

// ratingKey is the primary key: one record per (customer, book) pair.
func ratingKey(customerID, bookID string) []byte {
	return []byte(ratingPrefix + customerID + ":" + bookID)
}

// Rating Operations

// UpsertRating stores a rating, overwriting any previous score the
// customer gave the same book.
func (s *Store) UpsertRating(ctx context.Context, rating *domain.Rating) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(rating)
		if err != nil {
			return err
		}
		if err := txn.Set(ratingKey(rating.CustomerID, rating.BookID), data); err != nil {
			return err
		}
		bookKey := []byte(ratingByBookPrefix + rating.BookID + ":" + rating.CustomerID)
		return txn.Set(bookKey, data)
	})
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "rating stored",
			slog.String("customer", rating.CustomerID),
			slog.String("book", rating.BookID),
			slog.Int("score", rating.Score),
		)
	}
	return nil
}

// GetRating retrieves the rating a customer gave a book.
func (s *Store) GetRating(_ context.Context, customerID, bookID string) (*domain.Rating, error) {
	var rating domain.Rating
	err := s.get(ratingKey(customerID, bookID), &rating)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rating, nil
}

// RatingsByCustomer returns every rating the customer has recorded.
func (s *Store) RatingsByCustomer(_ context.Context, customerID string) ([]domain.Rating, error) {
	var ratings []domain.Rating
	prefix := []byte(ratingPrefix + customerID + ":")
	err := scanPrefix(s, prefix, func(r *domain.Rating) error {
		ratings = append(ratings, *r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ratings by customer: %w", err)
	}
	return ratings, nil
}

// RatingsByBook returns every rating recorded for the book.
func (s *Store) RatingsByBook(_ context.Context, bookID string) ([]domain.Rating, error) {
	var ratings []domain.Rating
	prefix := []byte(ratingByBookPrefix + bookID + ":")
	err := scanPrefix(s, prefix, func(r *domain.Rating) error {
		ratings = append(ratings, *r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ratings by book: %w", err)
	}
	return ratings, nil
}
