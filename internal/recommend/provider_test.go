package recommend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	"github.com/bookmarketapp/bookmarket-server/internal/recommend"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
)

func newRatings(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func rate(t *testing.T, s *store.Store, customerID, bookID string, score int) {
	t.Helper()
	require.NoError(t, s.UpsertRating(context.Background(), &domain.Rating{
		CustomerID: customerID,
		BookID:     bookID,
		Score:      score,
	}))
}

func TestRecommendExcludesRatedBooks(t *testing.T) {
	s := newRatings(t)
	rate(t, s, "cust-1", "book-shared", 5)
	rate(t, s, "cust-2", "book-shared", 4)
	rate(t, s, "cust-2", "book-new", 5)

	provider := recommend.New(s, nil)
	got, err := provider.Recommend(context.Background(), "cust-1", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"book-new"}, got)
	assert.NotContains(t, got, "book-shared")
}

func TestRecommendRanksByNeighborScores(t *testing.T) {
	s := newRatings(t)
	rate(t, s, "cust-1", "book-shared", 5)
	// Two neighbors love book-hot, one is lukewarm on book-meh.
	rate(t, s, "cust-2", "book-shared", 4)
	rate(t, s, "cust-2", "book-hot", 5)
	rate(t, s, "cust-3", "book-shared", 3)
	rate(t, s, "cust-3", "book-hot", 5)
	rate(t, s, "cust-3", "book-meh", 2)

	provider := recommend.New(s, nil)
	got, err := provider.Recommend(context.Background(), "cust-1", 10)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "book-hot", got[0])
	assert.Equal(t, "book-meh", got[1])
}

func TestRecommendNoRatingsYieldsEmpty(t *testing.T) {
	s := newRatings(t)
	rate(t, s, "cust-other", "book-1", 5)

	provider := recommend.New(s, nil)
	got, err := provider.Recommend(context.Background(), "cust-lurker", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommendHonorsLimit(t *testing.T) {
	s := newRatings(t)
	rate(t, s, "cust-1", "book-shared", 5)
	rate(t, s, "cust-2", "book-shared", 5)
	for _, bookID := range []string{"book-a", "book-b", "book-c", "book-d"} {
		rate(t, s, "cust-2", bookID, 4)
	}

	provider := recommend.New(s, nil)
	got, err := provider.Recommend(context.Background(), "cust-1", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
