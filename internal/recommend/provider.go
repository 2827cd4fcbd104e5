// Package recommend supplies recommendation candidates from rating
// overlap: customers who rated the same books you did point at what you
// might want next. The pricing layer treats any provider failure as an
// empty result, so this package can fail loudly.
package recommend

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

// RatingSource is the ratings read surface the provider needs.
type RatingSource interface {
	RatingsByCustomer(ctx context.Context, customerID string) ([]domain.Rating, error)
	RatingsByBook(ctx context.Context, bookID string) ([]domain.Rating, error)
}

// Provider recommends books through rating co-occurrence.
type Provider struct {
	ratings RatingSource
	logger  *slog.Logger
}

// New creates a rating-overlap provider.
func New(ratings RatingSource, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{
		ratings: ratings,
		logger:  logger,
	}
}

// Recommend returns up to limit book ids the customer has not rated,
// ranked by how strongly overlapping raters scored them. A customer with
// no ratings has no neighbors and gets an empty list.
func (p *Provider) Recommend(ctx context.Context, customerID string, limit int) ([]string, error) {
	own, err := p.ratings.RatingsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return nil, nil
	}

	rated := make(map[string]bool, len(own))
	for _, r := range own {
		rated[r.BookID] = true
	}

	// Neighbors are everyone who rated a book this customer rated.
	neighbors := make(map[string]bool)
	for _, r := range own {
		others, err := p.ratings.RatingsByBook(ctx, r.BookID)
		if err != nil {
			return nil, err
		}
		for _, other := range others {
			if other.CustomerID != customerID {
				neighbors[other.CustomerID] = true
			}
		}
	}

	// Candidate books accumulate the scores neighbors gave them. Books the
	// customer already rated never become candidates.
	scores := make(map[string]int)
	for neighborID := range neighbors {
		theirs, err := p.ratings.RatingsByCustomer(ctx, neighborID)
		if err != nil {
			return nil, err
		}
		for _, r := range theirs {
			if rated[r.BookID] {
				continue
			}
			scores[r.BookID] += r.Score
		}
	}

	candidates := make([]string, 0, len(scores))
	for bookID := range scores {
		candidates = append(candidates, bookID)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if scores[candidates[i]] != scores[candidates[j]] {
			return scores[candidates[i]] > scores[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	p.logger.Debug("recommendations computed",
		"customer", customerID,
		"neighbors", len(neighbors),
		"candidates", len(candidates),
	)
	return candidates, nil
}
