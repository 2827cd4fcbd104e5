package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
)

func TestCreateAndGetCustomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := &domain.Customer{ID: "cust-1", Username: "reader42", Discount: 5}
	require.NoError(t, s.CreateCustomer(ctx, customer))

	got, err := s.GetCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "reader42", got.Username)
	assert.True(t, got.IsSubscriber())
}

func TestCreateCustomerDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCustomer(ctx, &domain.Customer{ID: "cust-1", Username: "reader42"}))
	err := s.CreateCustomer(ctx, &domain.Customer{ID: "cust-2", Username: "reader42"})
	assert.ErrorIs(t, err, store.ErrCustomerExists)
}

func TestGetCustomerByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCustomer(ctx, &domain.Customer{ID: "cust-1", Username: "reader42"}))

	got, err := s.GetCustomerByUsername(ctx, "reader42")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", got.ID)

	_, err = s.GetCustomerByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}

func TestRefreshSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCustomer(ctx, &domain.Customer{ID: "cust-1"}))

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.RefreshSession(ctx, "cust-1", now)
	require.NoError(t, err)
	assert.Equal(t, now, got.LastLoginAt)
	assert.Equal(t, now.Add(domain.SessionDuration), got.SessionExpiresAt)

	_, err = s.RefreshSession(ctx, "cust-missing", now)
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}

func TestEnsureAddressDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureAddress(ctx, domain.Address{
		Street1: "123 Main St.",
		City:    "Boston",
		Country: "USA",
	})
	require.NoError(t, err)

	second, err := s.EnsureAddress(ctx, domain.Address{
		Street1: " 123 main st ",
		City:    "BOSTON",
		Country: "usa",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := s.EnsureAddress(ctx, domain.Address{
		Street1: "99 Side Ave",
		City:    "Boston",
		Country: "USA",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestUpsertRatingOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rated := time.Now()
	require.NoError(t, s.UpsertRating(ctx, &domain.Rating{
		CustomerID: "cust-1", BookID: "book-1", Score: 2, RatedAt: rated,
	}))
	require.NoError(t, s.UpsertRating(ctx, &domain.Rating{
		CustomerID: "cust-1", BookID: "book-1", Score: 5, RatedAt: rated,
	}))

	got, err := s.GetRating(ctx, "cust-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Score)

	byCustomer, err := s.RatingsByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)
}

func TestRatingsByBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRating(ctx, &domain.Rating{CustomerID: "cust-1", BookID: "book-1", Score: 4}))
	require.NoError(t, s.UpsertRating(ctx, &domain.Rating{CustomerID: "cust-2", BookID: "book-1", Score: 3}))
	require.NoError(t, s.UpsertRating(ctx, &domain.Rating{CustomerID: "cust-1", BookID: "book-2", Score: 5}))

	ratings, err := s.RatingsByBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}
