// Package shard implements the per-shard market state: stocks, carts, and
// orders. Each shard guards its state with one exclusive lock, so every
// mutation is a single writer and reads serialize against writes. Shards
// share nothing, which keeps cross-shard deadlock impossible.
package shard

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
	"github.com/bookmarketapp/bookmarket-server/internal/id"
)

// Sentinel errors returned by shard operations.
var (
	ErrCartNotFound  = apperrors.NotFound("cart not found")
	ErrStockNotFound = apperrors.NotFound("stock not found")
	ErrOrderNotFound = apperrors.NotFound("order not found")
)

// Options configures a shard.
type Options struct {
	// Seed seeds the shard's private randomness (ship dates, cart
	// auto-fill). Zero seeds from the clock.
	Seed int64
	// RestockThreshold triggers a restock when on-hand stock drops below it.
	RestockThreshold int
	// RestockQuantity is how many units a restock adds.
	RestockQuantity int

	Logger *slog.Logger
}

// Store is one market shard. All exported methods are safe for concurrent
// use; writes hold the exclusive lock for their whole critical section so
// same-shard mutations observe a total order.
type Store struct {
	id     string
	logger *slog.Logger

	restockThreshold int
	restockQuantity  int

	mu     sync.RWMutex
	stocks map[string]*domain.Stock
	// stockedIDs mirrors the stocks map keys in insertion order so the
	// checkout auto-fill can pick a random stocked book.
	stockedIDs []string
	carts      map[string]*domain.Cart
	orders     map[string]*domain.Order
	// orderLog keeps orders in creation order for aggregation snapshots.
	orderLog []*domain.Order
	orderSeq uint64

	// rng is only touched while mu is held for writing.
	rng *rand.Rand
}

// New creates an empty shard.
func New(shardID string, opts Options) *Store {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		id:               shardID,
		logger:           logger,
		restockThreshold: opts.RestockThreshold,
		restockQuantity:  opts.RestockQuantity,
		stocks:           make(map[string]*domain.Stock),
		carts:            make(map[string]*domain.Cart),
		orders:           make(map[string]*domain.Order),
		rng:              rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)),
	}
}

// ID returns the shard identifier.
func (s *Store) ID() string {
	return s.id
}

// Stock operations

// SetStock creates or replaces the shard's holding of a book.
func (s *Store) SetStock(bookID string, cost float64, quantity int) domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stocks[bookID]; !ok {
		s.stockedIDs = append(s.stockedIDs, bookID)
	}
	stock := &domain.Stock{
		ShardID:  s.id,
		BookID:   bookID,
		Cost:     cost,
		Quantity: quantity,
	}
	s.stocks[bookID] = stock

	s.logger.Debug("stock set",
		"shard", s.id,
		"book", bookID,
		"cost", cost,
		"quantity", quantity,
	)
	return *stock
}

// RepriceStock changes the cost of an existing holding, leaving quantity
// untouched. Returns false when the shard does not stock the book.
func (s *Store) RepriceStock(bookID string, cost float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.stocks[bookID]
	if !ok {
		return false
	}
	stock.Cost = cost

	s.logger.Debug("stock repriced", "shard", s.id, "book", bookID, "cost", cost)
	return true
}

// GetStock returns the shard's holding of a book.
func (s *Store) GetStock(bookID string) (domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stock, ok := s.stocks[bookID]
	if !ok {
		return domain.Stock{}, ErrStockNotFound
	}
	return *stock, nil
}

// Stocks returns a snapshot of every holding on the shard.
func (s *Store) Stocks() []domain.Stock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Stock, 0, len(s.stockedIDs))
	for _, bookID := range s.stockedIDs {
		out = append(out, *s.stocks[bookID])
	}
	return out
}

// Cart operations

// CreateCart opens a new empty cart and returns its id.
func (s *Store) CreateCart(now time.Time) (string, error) {
	cartID, err := id.Generate("cart")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "generate cart id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cartID] = &domain.Cart{
		ID:        cartID,
		ShardID:   s.id,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.logger.Debug("cart created", "shard", s.id, "cart", cartID)
	return cartID, nil
}

// GetCart returns a snapshot of the cart.
func (s *Store) GetCart(cartID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return domain.Cart{}, ErrCartNotFound
	}
	return cart.Clone(), nil
}

// UpdateCart applies removals first, then the optional add. Removing a book
// that is not in the cart is a no-op. Adding a book the shard does not
// stock fails with a not-found error and leaves the removals applied, the
// same way a partially applied form submission would.
func (s *Store) UpdateCart(cartID, addBookID string, addQty int, removeBookIDs []string, now time.Time) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return domain.Cart{}, ErrCartNotFound
	}

	for _, bookID := range removeBookIDs {
		cart.Remove(bookID)
	}

	if addBookID != "" {
		if addQty <= 0 {
			return domain.Cart{}, apperrors.InvalidArgumentf("quantity %d must be positive", addQty)
		}
		if _, stocked := s.stocks[addBookID]; !stocked {
			return domain.Cart{}, ErrStockNotFound.WithDetails(map[string]string{"book": addBookID})
		}
		cart.Add(addBookID, addQty)
	}

	cart.UpdatedAt = now

	s.logger.Debug("cart updated",
		"shard", s.id,
		"cart", cartID,
		"lines", len(cart.Lines),
	)
	return cart.Clone(), nil
}

// Order operations

// GetOrder returns a snapshot of an order.
func (s *Store) GetOrder(orderID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// Orders returns a snapshot of every order on the shard in creation order.
// The snapshot is internally consistent for this shard; cross-shard readers
// see each shard at a possibly different instant.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.orderLog))
	for _, order := range s.orderLog {
		out = append(out, order.Clone())
	}
	return out
}

// ShipOrder moves an order from PENDING to SHIPPED. The transition is
// one-way; shipping an already shipped order fails with an illegal state
// error.
func (s *Store) ShipOrder(orderID string, now time.Time) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if order.Status != domain.OrderPending {
		return domain.Order{}, apperrors.IllegalStatef("order %s is %s, only pending orders ship", orderID, order.Status)
	}

	order.Status = domain.OrderShipped
	order.ShippedAt = now

	s.logger.Info("order shipped",
		"shard", s.id,
		"order", orderID,
		"seq", order.Seq,
	)
	return order.Clone(), nil
}
