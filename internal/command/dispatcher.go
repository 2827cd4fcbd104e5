package command

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
	"github.com/bookmarketapp/bookmarket-server/internal/id"
	"github.com/bookmarketapp/bookmarket-server/internal/shard"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
	"github.com/bookmarketapp/bookmarket-server/internal/validation"
)

// PopulateResult reports what a Populate command loaded.
type PopulateResult struct {
	Authors   int `json:"authors"`
	Books     int `json:"books"`
	Customers int `json:"customers"`
	Stocks    int `json:"stocks"`
}

// Dispatcher routes commands to the owning shard or the catalog. Shard
// commands touch exactly one shard; catalog commands may fan out to all
// shards (UpdateBook, Populate) but never lock two shards at once.
type Dispatcher struct {
	catalog   *store.Store
	shards    map[string]*shard.Store
	shardIDs  []string
	validator *validation.Validator
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given shards.
func NewDispatcher(catalog *store.Store, shards []*shard.Store, v *validation.Validator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byID := make(map[string]*shard.Store, len(shards))
	ids := make([]string, 0, len(shards))
	for _, s := range shards {
		byID[s.ID()] = s
		ids = append(ids, s.ID())
	}
	sort.Strings(ids)

	return &Dispatcher{
		catalog:   catalog,
		shards:    byID,
		shardIDs:  ids,
		validator: v,
		logger:    logger,
	}
}

// ShardIDs returns the routable shard ids in stable order.
func (d *Dispatcher) ShardIDs() []string {
	out := make([]string, len(d.shardIDs))
	copy(out, d.shardIDs)
	return out
}

// Execute validates a command and routes it. The result type depends on
// the command; the typed wrappers below are the convenient surface.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.validator.Validate(cmd); err != nil {
		return nil, err
	}

	switch c := cmd.(type) {
	case CreateCart:
		return d.handleCreateCart(c)
	case UpdateCart:
		return d.handleUpdateCart(c)
	case ConfirmBuy:
		return d.handleConfirmBuy(ctx, c)
	case ShipOrder:
		return d.handleShipOrder(c)
	case UpdateBook:
		return d.handleUpdateBook(ctx, c)
	case CreateCustomer:
		return d.handleCreateCustomer(ctx, c)
	case RefreshSession:
		return d.catalog.RefreshSession(ctx, c.CustomerID, time.Now())
	case RateBook:
		return d.handleRateBook(ctx, c)
	case Populate:
		return d.handlePopulate(ctx, c)
	default:
		return nil, apperrors.InvalidArgumentf("unknown command type %T", cmd)
	}
}

// Typed wrappers over Execute, for callers that know the command.

// CreateCart opens a cart and returns its id.
func (d *Dispatcher) CreateCart(ctx context.Context, cmd CreateCart) (string, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// UpdateCart mutates a cart and returns the resulting snapshot.
func (d *Dispatcher) UpdateCart(ctx context.Context, cmd UpdateCart) (domain.Cart, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return domain.Cart{}, err
	}
	return res.(domain.Cart), nil
}

// ConfirmBuy checks a cart out into a pending order.
func (d *Dispatcher) ConfirmBuy(ctx context.Context, cmd ConfirmBuy) (domain.Order, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return domain.Order{}, err
	}
	return res.(domain.Order), nil
}

// ShipOrder ships a pending order.
func (d *Dispatcher) ShipOrder(ctx context.Context, cmd ShipOrder) (domain.Order, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return domain.Order{}, err
	}
	return res.(domain.Order), nil
}

// UpdateBook updates a book's presentation and stock cost.
func (d *Dispatcher) UpdateBook(ctx context.Context, cmd UpdateBook) (*domain.Book, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Book), nil
}

// CreateCustomer registers a customer.
func (d *Dispatcher) CreateCustomer(ctx context.Context, cmd CreateCustomer) (*domain.Customer, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Customer), nil
}

// RefreshSession records a login and returns the updated customer.
func (d *Dispatcher) RefreshSession(ctx context.Context, cmd RefreshSession) (*domain.Customer, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Customer), nil
}

// RateBook records a rating.
func (d *Dispatcher) RateBook(ctx context.Context, cmd RateBook) (*domain.Rating, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Rating), nil
}

// Populate loads seed data.
func (d *Dispatcher) Populate(ctx context.Context, cmd Populate) (PopulateResult, error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return PopulateResult{}, err
	}
	return res.(PopulateResult), nil
}

// shardFor resolves a shard id or fails with a not-found error.
func (d *Dispatcher) shardFor(shardID string) (*shard.Store, error) {
	s, ok := d.shards[shardID]
	if !ok {
		return nil, apperrors.NotFoundf("shard %s not found", shardID)
	}
	return s, nil
}

func (d *Dispatcher) handleCreateCart(c CreateCart) (string, error) {
	s, err := d.shardFor(c.ShardID)
	if err != nil {
		return "", err
	}
	return s.CreateCart(time.Now())
}

func (d *Dispatcher) handleUpdateCart(c UpdateCart) (domain.Cart, error) {
	s, err := d.shardFor(c.ShardID)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.UpdateCart(c.CartID, c.AddBookID, c.AddQty, c.RemoveBookIDs, time.Now())
}

func (d *Dispatcher) handleConfirmBuy(ctx context.Context, c ConfirmBuy) (domain.Order, error) {
	s, err := d.shardFor(c.ShardID)
	if err != nil {
		return domain.Order{}, err
	}

	customer, err := d.catalog.GetCustomer(ctx, c.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	shippingID := customer.AddressID
	if c.ShippingAddress != nil {
		addr, err := d.catalog.EnsureAddress(ctx, *c.ShippingAddress)
		if err != nil {
			return domain.Order{}, err
		}
		shippingID = addr.ID
	}
	billingID := customer.AddressID
	if c.BillingAddress != nil {
		addr, err := d.catalog.EnsureAddress(ctx, *c.BillingAddress)
		if err != nil {
			return domain.Order{}, err
		}
		billingID = addr.ID
	}

	shipType := c.ShipType
	if shipType == "" {
		shipType = domain.ShipMail
	}

	return s.ConfirmPurchase(shard.CheckoutParams{
		CartID:            c.CartID,
		Customer:          *customer,
		ShipType:          shipType,
		Payment:           c.Payment,
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
		Now:               time.Now(),
	})
}

func (d *Dispatcher) handleShipOrder(c ShipOrder) (domain.Order, error) {
	s, err := d.shardFor(c.ShardID)
	if err != nil {
		return domain.Order{}, err
	}
	return s.ShipOrder(c.OrderID, time.Now())
}

// handleUpdateBook updates the catalog presentation fields and fans the
// new cost out to every shard that stocks the book, one shard at a time.
func (d *Dispatcher) handleUpdateBook(ctx context.Context, c UpdateBook) (*domain.Book, error) {
	book, err := d.catalog.UpdateBookPresentation(ctx, c.BookID, c.Image, c.Thumbnail, time.Now())
	if err != nil {
		return nil, err
	}

	repriced := 0
	for _, shardID := range d.shardIDs {
		if d.shards[shardID].RepriceStock(c.BookID, c.Cost) {
			repriced++
		}
	}

	d.logger.Info("book updated",
		"book", c.BookID,
		"cost", c.Cost,
		"shards_repriced", repriced,
	)
	return book, nil
}

func (d *Dispatcher) handleCreateCustomer(ctx context.Context, c CreateCustomer) (*domain.Customer, error) {
	customerID, err := id.Generate("cust")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate customer id")
	}

	now := time.Now()
	customer := &domain.Customer{
		ID:        customerID,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Discount:  c.Discount,
		BirthDate: c.BirthDate,
		CreatedAt: now,
	}
	customer.TouchSession(now)

	if c.Address != (domain.Address{}) {
		addr, err := d.catalog.EnsureAddress(ctx, c.Address)
		if err != nil {
			return nil, err
		}
		customer.AddressID = addr.ID
	}

	if err := d.catalog.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (d *Dispatcher) handleRateBook(ctx context.Context, c RateBook) (*domain.Rating, error) {
	if !domain.ValidScore(c.Score) {
		return nil, apperrors.InvalidArgumentf("score %d out of range [%d, %d]",
			c.Score, domain.MinRatingScore, domain.MaxRatingScore)
	}
	if _, err := d.catalog.GetCustomer(ctx, c.CustomerID); err != nil {
		return nil, err
	}
	if _, err := d.catalog.GetBook(ctx, c.BookID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		CustomerID: c.CustomerID,
		BookID:     c.BookID,
		Score:      c.Score,
		RatedAt:    time.Now(),
	}
	if err := d.catalog.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// handlePopulate loads seed data in dependency order: authors, then books,
// then customers, then per-shard stocks. A stock entry naming an unknown
// shard or book fails the command.
func (d *Dispatcher) handlePopulate(ctx context.Context, c Populate) (PopulateResult, error) {
	var result PopulateResult

	for i := range c.Authors {
		if err := d.catalog.CreateAuthor(ctx, &c.Authors[i]); err != nil {
			return result, err
		}
		result.Authors++
	}
	for i := range c.Books {
		if err := d.catalog.CreateBook(ctx, &c.Books[i]); err != nil {
			return result, err
		}
		result.Books++
	}
	for i := range c.Customers {
		if err := d.catalog.CreateCustomer(ctx, &c.Customers[i]); err != nil {
			return result, err
		}
		result.Customers++
	}
	for _, stock := range c.Stocks {
		s, err := d.shardFor(stock.ShardID)
		if err != nil {
			return result, err
		}
		if _, err := d.catalog.GetBook(ctx, stock.BookID); err != nil {
			return result, err
		}
		s.SetStock(stock.BookID, stock.Cost, stock.Quantity)
		result.Stocks++
	}

	d.logger.Info("market populated",
		"authors", result.Authors,
		"books", result.Books,
		"customers", result.Customers,
		"stocks", result.Stocks,
	)
	return result, nil
}
