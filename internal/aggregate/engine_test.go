package aggregate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarketapp/bookmarket-server/internal/aggregate"
	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
)

type fakeShard struct {
	id     string
	orders []domain.Order
}

func (f *fakeShard) ID() string             { return f.id }
func (f *fakeShard) Orders() []domain.Order { return f.orders }

func shippedOrder(bookID string, qty int, unitPrice float64) domain.Order {
	return domain.Order{
		Status: domain.OrderShipped,
		Lines:  []domain.OrderLine{{BookID: bookID, Quantity: qty, UnitPrice: unitPrice}},
	}
}

func pendingOrder(bookID string, qty int, unitPrice float64) domain.Order {
	return domain.Order{
		Status: domain.OrderPending,
		Lines:  []domain.OrderLine{{BookID: bookID, Quantity: qty, UnitPrice: unitPrice}},
	}
}

func newCatalog(t *testing.T, books ...*domain.Book) *store.Store {
	t.Helper()

	s, err := store.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	for _, b := range books {
		require.NoError(t, s.CreateBook(context.Background(), b))
	}
	return s
}

func book(id, title string, subject domain.Subject, srp float64) *domain.Book {
	return &domain.Book{ID: id, Title: title, Subject: subject, SRP: srp}
}

func TestBestsellersLimitBounds(t *testing.T) {
	catalog := newCatalog(t)
	engine := aggregate.New(nil, catalog, nil)
	ctx := context.Background()

	_, err := engine.Bestsellers(ctx, domain.AllCategories(), 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = engine.Bestsellers(ctx, domain.AllCategories(), 101)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = engine.Bestsellers(ctx, domain.AllCategories(), 1)
	assert.NoError(t, err)

	_, err = engine.Bestsellers(ctx, domain.AllCategories(), 100)
	assert.NoError(t, err)
}

func TestBestsellersCountsOnlyShippedOrders(t *testing.T) {
	catalog := newCatalog(t, book("book-1", "Shipped Often", domain.SubjectArts, 10))
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{
			shippedOrder("book-1", 2, 10),
			pendingOrder("book-1", 50, 10),
		}},
	}
	engine := aggregate.New(shards, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.AllCategories(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].SalesCount)
}

func TestBestsellersOrderingAndTieBreak(t *testing.T) {
	catalog := newCatalog(t,
		book("book-3", "Banana", domain.SubjectArts, 10),
		book("book-2", "Apple", domain.SubjectArts, 10),
		book("book-1", "Top Seller", domain.SubjectArts, 10),
	)
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{
			shippedOrder("book-1", 9, 10),
			shippedOrder("book-2", 4, 10),
			shippedOrder("book-3", 4, 10),
		}},
	}
	engine := aggregate.New(shards, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.AllCategories(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Top Seller", entries[0].Book.Title)
	// Equal counts rank alphabetically by title.
	assert.Equal(t, "Apple", entries[1].Book.Title)
	assert.Equal(t, "Banana", entries[2].Book.Title)
}

func TestBestsellersAggregatesAcrossShards(t *testing.T) {
	catalog := newCatalog(t, book("book-1", "Everywhere", domain.SubjectArts, 10))
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{shippedOrder("book-1", 3, 10)}},
		&fakeShard{id: "shard-2", orders: []domain.Order{shippedOrder("book-1", 4, 12)}},
	}
	engine := aggregate.New(shards, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.AllCategories(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].SalesCount)
}

func TestBestsellersSubjectFilter(t *testing.T) {
	catalog := newCatalog(t,
		book("book-1", "Art Book", domain.SubjectArts, 10),
		book("book-2", "Travel Book", domain.SubjectTravel, 10),
	)
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{
			shippedOrder("book-1", 5, 10),
			shippedOrder("book-2", 9, 10),
		}},
	}
	engine := aggregate.New(shards, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.BySubject(domain.SubjectArts), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "book-1", entries[0].Book.ID)
}

func TestBestsellersTruncatesToLimit(t *testing.T) {
	books := []*domain.Book{
		book("book-1", "One", domain.SubjectArts, 10),
		book("book-2", "Two", domain.SubjectArts, 10),
		book("book-3", "Three", domain.SubjectArts, 10),
	}
	catalog := newCatalog(t, books...)
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{
			shippedOrder("book-1", 3, 10),
			shippedOrder("book-2", 2, 10),
			shippedOrder("book-3", 1, 10),
		}},
	}
	engine := aggregate.New(shards, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.AllCategories(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBestsellersEmptyHistory(t *testing.T) {
	catalog := newCatalog(t)
	engine := aggregate.New([]aggregate.ShardReader{&fakeShard{id: "shard-1"}}, catalog, nil)

	entries, err := engine.Bestsellers(context.Background(), domain.AllCategories(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoricalAveragePriceWeightsByQuantity(t *testing.T) {
	catalog := newCatalog(t, book("book-1", "Priced", domain.SubjectArts, 50))
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{shippedOrder("book-1", 3, 10)}},
		&fakeShard{id: "shard-2", orders: []domain.Order{shippedOrder("book-1", 2, 20)}},
	}
	engine := aggregate.New(shards, catalog, nil)

	// (3*10 + 2*20) / 5 units.
	avg, err := engine.HistoricalAveragePrice(context.Background(), "book-1")
	require.NoError(t, err)
	assert.InDelta(t, 14.0, avg, 1e-9)
}

func TestHistoricalAveragePriceIgnoresPendingOrders(t *testing.T) {
	catalog := newCatalog(t, book("book-1", "Priced", domain.SubjectArts, 50))
	shards := []aggregate.ShardReader{
		&fakeShard{id: "shard-1", orders: []domain.Order{
			shippedOrder("book-1", 1, 10),
			pendingOrder("book-1", 100, 999),
		}},
	}
	engine := aggregate.New(shards, catalog, nil)

	avg, err := engine.HistoricalAveragePrice(context.Background(), "book-1")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, avg, 1e-9)
}

func TestHistoricalAveragePriceFallsBackToSRP(t *testing.T) {
	catalog := newCatalog(t, book("book-1", "Never Sold", domain.SubjectArts, 42.5))
	engine := aggregate.New([]aggregate.ShardReader{&fakeShard{id: "shard-1"}}, catalog, nil)

	avg, err := engine.HistoricalAveragePrice(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 42.5, avg)
}

func TestHistoricalAveragePriceUnknownBook(t *testing.T) {
	catalog := newCatalog(t)
	engine := aggregate.New(nil, catalog, nil)

	_, err := engine.HistoricalAveragePrice(context.Background(), "book-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
