// Package command defines the plain-data commands the market accepts and
// the dispatcher that routes them to the owning shard or the catalog.
// Commands carry no behavior; they are immutable payloads a caller could
// serialize, log, or replay.
package command

import (
	"time"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

// Command is the marker interface for market commands.
type Command interface {
	isCommand()
}

// CreateCart opens an empty cart on a shard.
type CreateCart struct {
	ShardID string `json:"shardId" validate:"required"`
}

// UpdateCart mutates a cart: removals apply first, then the optional add.
type UpdateCart struct {
	ShardID       string   `json:"shardId" validate:"required"`
	CartID        string   `json:"cartId" validate:"required"`
	AddBookID     string   `json:"addBookId,omitempty"`
	AddQty        int      `json:"addQty,omitempty" validate:"gte=0"`
	RemoveBookIDs []string `json:"removeBookIds,omitempty"`
}

// ConfirmBuy turns a cart into a PENDING order.
type ConfirmBuy struct {
	ShardID    string             `json:"shardId" validate:"required"`
	CartID     string             `json:"cartId" validate:"required"`
	CustomerID string             `json:"customerId" validate:"required"`
	ShipType   domain.ShipType    `json:"shipType,omitempty"`
	Payment    domain.PaymentInfo `json:"payment,omitzero"`

	// Optional one-off addresses. When nil the customer's stored address
	// serves both roles.
	ShippingAddress *domain.Address `json:"shippingAddress,omitempty"`
	BillingAddress  *domain.Address `json:"billingAddress,omitempty"`
}

// ShipOrder moves a PENDING order to SHIPPED.
type ShipOrder struct {
	ShardID string `json:"shardId" validate:"required"`
	OrderID string `json:"orderId" validate:"required"`
}

// UpdateBook replaces a book's presentation fields and repositions its
// cost on every shard that stocks it.
type UpdateBook struct {
	BookID    string  `json:"bookId" validate:"required"`
	Cost      float64 `json:"cost" validate:"gt=0"`
	Image     string  `json:"image,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// CreateCustomer registers a new customer.
type CreateCustomer struct {
	Username  string         `json:"username" validate:"required"`
	FirstName string         `json:"firstName" validate:"required"`
	LastName  string         `json:"lastName" validate:"required"`
	Email     string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string         `json:"phone,omitempty"`
	Discount  float64        `json:"discount" validate:"gte=0,lte=100"`
	Address   domain.Address `json:"address,omitzero"`
	BirthDate time.Time      `json:"birthDate,omitzero"`
}

// RefreshSession records a login and extends the customer's session.
type RefreshSession struct {
	CustomerID string `json:"customerId" validate:"required"`
}

// RateBook records or overwrites a customer's score for a book. The score
// range is a domain rule, not a shape rule, so the dispatcher checks it
// against domain.ValidScore and rejects with an invalid-argument error.
type RateBook struct {
	CustomerID string `json:"customerId" validate:"required"`
	BookID     string `json:"bookId" validate:"required"`
	Score      int    `json:"score"`
}

// Populate loads caller-provided seed data into the catalog and shards.
// Nothing is generated; the payload is the entire data set.
type Populate struct {
	Authors   []domain.Author   `json:"authors,omitempty"`
	Books     []domain.Book     `json:"books,omitempty"`
	Customers []domain.Customer `json:"customers,omitempty"`
	// Stocks route to the shard named in each entry.
	Stocks []domain.Stock `json:"stocks,omitempty"`
}

func (CreateCart) isCommand()     {}
func (UpdateCart) isCommand()     {}
func (ConfirmBuy) isCommand()     {}
func (ShipOrder) isCommand()      {}
func (UpdateBook) isCommand()     {}
func (CreateCustomer) isCommand() {}
func (RefreshSession) isCommand() {}
func (RateBook) isCommand()       {}
func (Populate) isCommand()       {}
