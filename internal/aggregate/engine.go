// Package aggregate computes cross-shard read models: bestseller rankings
// and historical average prices. Results are built from per-shard snapshots
// taken one shard at a time, so they are internally consistent per shard
// and best-effort across shards.
package aggregate

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
)

// Bestseller limit bounds.
const (
	MinBestsellerLimit = 1
	MaxBestsellerLimit = 100
)

// ShardReader is the read surface the engine needs from each shard.
type ShardReader interface {
	ID() string
	Orders() []domain.Order
}

// BookSource resolves book ids against the catalog.
type BookSource interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

// Engine aggregates order history across shards.
type Engine struct {
	shards []ShardReader
	books  BookSource
	logger *slog.Logger
}

// New creates an aggregation engine over the given shards.
func New(shards []ShardReader, books BookSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		shards: shards,
		books:  books,
		logger: logger,
	}
}

// Bestsellers ranks books by shipped sales volume. Only SHIPPED orders
// count; pending orders are still cancelable and carry no sales evidence.
// Ties break by title, then by id, so equal sellers rank deterministically.
// An empty sales history yields an empty list, not an error.
func (e *Engine) Bestsellers(ctx context.Context, filter domain.CategoryFilter, limit int) ([]domain.BestsellerEntry, error) {
	if limit < MinBestsellerLimit || limit > MaxBestsellerLimit {
		return nil, apperrors.InvalidArgumentf("limit %d out of range [%d, %d]",
			limit, MinBestsellerLimit, MaxBestsellerLimit)
	}

	counts := make(map[string]int)
	for _, s := range e.shards {
		for _, order := range s.Orders() {
			if order.Status != domain.OrderShipped {
				continue
			}
			for _, line := range order.Lines {
				counts[line.BookID] += line.Quantity
			}
		}
	}

	entries := make([]domain.BestsellerEntry, 0, len(counts))
	for bookID, count := range counts {
		book, err := e.books.GetBook(ctx, bookID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				// Order lines outlive catalog entries only if seed data was
				// inconsistent; skip rather than poison the whole ranking.
				e.logger.Warn("bestseller tally references unknown book", "book", bookID)
				continue
			}
			return nil, err
		}
		if !filter.Matches(*book) {
			continue
		}
		entries = append(entries, domain.BestsellerEntry{Book: *book, SalesCount: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SalesCount != entries[j].SalesCount {
			return entries[i].SalesCount > entries[j].SalesCount
		}
		if entries[i].Book.Title != entries[j].Book.Title {
			return entries[i].Book.Title < entries[j].Book.Title
		}
		return entries[i].Book.ID < entries[j].Book.ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// HistoricalAveragePrice returns the quantity-weighted average unit price
// the book actually shipped at, across all shards. A book with no shipped
// sales falls back to its suggested retail price.
func (e *Engine) HistoricalAveragePrice(ctx context.Context, bookID string) (float64, error) {
	book, err := e.books.GetBook(ctx, bookID)
	if err != nil {
		return 0, err
	}

	totalSpend := 0.0
	totalUnits := 0
	for _, s := range e.shards {
		for _, order := range s.Orders() {
			if order.Status != domain.OrderShipped {
				continue
			}
			for _, line := range order.Lines {
				if line.BookID != bookID {
					continue
				}
				totalSpend += line.UnitPrice * float64(line.Quantity)
				totalUnits += line.Quantity
			}
		}
	}

	if totalUnits == 0 {
		return book.SRP, nil
	}
	return totalSpend / float64(totalUnits), nil
}
