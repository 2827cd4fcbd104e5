// Package pricing decides what a given customer pays for a given book.
// Subscribers get the cheapest live stock cost across shards; everyone
// else pays the historical shipped average. Both rules fall back to the
// book's suggested retail price when no evidence exists.
package pricing

import (
	"context"
	"log/slog"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
)

// DefaultRecommendationLimit caps recommended-price lists when the caller
// does not specify a limit.
const DefaultRecommendationLimit = 5

// CandidateProvider produces recommendation candidates for a customer.
// Implementations must not return books the customer has already rated.
type CandidateProvider interface {
	Recommend(ctx context.Context, customerID string, limit int) ([]string, error)
}

// StockReader is the per-shard read surface the policy prices against.
type StockReader interface {
	ID() string
	GetStock(bookID string) (domain.Stock, error)
}

// History supplies the sales-derived price inputs.
type History interface {
	HistoricalAveragePrice(ctx context.Context, bookID string) (float64, error)
	Bestsellers(ctx context.Context, filter domain.CategoryFilter, limit int) ([]domain.BestsellerEntry, error)
}

// Catalog resolves customers and books.
type Catalog interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

// RecommendedPrice pairs a candidate book with the price the customer
// would pay for it.
type RecommendedPrice struct {
	Book  domain.Book `json:"book"`
	Price float64     `json:"price"`
}

// Policy prices books per customer.
type Policy struct {
	shards  []StockReader
	history History
	catalog Catalog
	logger  *slog.Logger
}

// New creates a pricing policy over the given shards.
func New(shards []StockReader, history History, catalog Catalog, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Policy{
		shards:  shards,
		history: history,
		catalog: catalog,
		logger:  logger,
	}
}

// PriceFor returns the price the customer pays for the book.
func (p *Policy) PriceFor(ctx context.Context, customer domain.Customer, book domain.Book) (float64, error) {
	if customer.IsSubscriber() {
		return p.subscriberPrice(book), nil
	}
	return p.history.HistoricalAveragePrice(ctx, book.ID)
}

// subscriberPrice is the minimum live stock cost across shards, falling
// back to srp when no shard stocks the book.
func (p *Policy) subscriberPrice(book domain.Book) float64 {
	best := book.SRP
	found := false
	for _, s := range p.shards {
		stock, err := s.GetStock(book.ID)
		if err != nil {
			continue
		}
		if !found || stock.Cost < best {
			best = stock.Cost
			found = true
		}
	}
	return best
}

// RecommendedPrices returns up to limit candidate books priced for the
// customer, preserving the provider's ordering. A failing or empty
// provider degrades to the bestseller list priced with the regular rule;
// recommendations never fail because personalization did.
func (p *Policy) RecommendedPrices(ctx context.Context, customerID string, provider CandidateProvider, limit int) ([]RecommendedPrice, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	customer, err := p.catalog.GetCustomer(ctx, customerID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidArgumentf("unknown customer %s", customerID)
		}
		return nil, err
	}

	var candidates []string
	if provider != nil {
		candidates, err = provider.Recommend(ctx, customerID, limit)
		if err != nil {
			p.logger.Warn("candidate provider failed, falling back to bestsellers",
				"customer", customerID,
				"error", err,
			)
			candidates = nil
		}
	}

	if len(candidates) == 0 {
		return p.bestsellerFallback(ctx, limit)
	}

	out := make([]RecommendedPrice, 0, len(candidates))
	for _, bookID := range candidates {
		book, err := p.catalog.GetBook(ctx, bookID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				p.logger.Warn("provider recommended unknown book", "book", bookID)
				continue
			}
			return nil, err
		}
		price, err := p.PriceFor(ctx, *customer, *book)
		if err != nil {
			return nil, err
		}
		out = append(out, RecommendedPrice{Book: *book, Price: price})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// bestsellerFallback prices the bestseller list with the regular rule for
// every customer, subscriber or not.
func (p *Policy) bestsellerFallback(ctx context.Context, limit int) ([]RecommendedPrice, error) {
	entries, err := p.history.Bestsellers(ctx, domain.AllCategories(), limit)
	if err != nil {
		return nil, err
	}

	out := make([]RecommendedPrice, 0, len(entries))
	for _, entry := range entries {
		price, err := p.history.HistoricalAveragePrice(ctx, entry.Book.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RecommendedPrice{Book: entry.Book, Price: price})
	}
	return out, nil
}
