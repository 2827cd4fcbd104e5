package domain

import "time"

// OrderStatus is the order lifecycle state. The only transition is
// PENDING to SHIPPED, and it is one-way.
type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderShipped OrderStatus = "SHIPPED"
)

// ShipType is the delivery method chosen at checkout.
type ShipType string

const (
	ShipAir     ShipType = "AIR"
	ShipUPS     ShipType = "UPS"
	ShipFedEx   ShipType = "FEDEX"
	ShipSurface ShipType = "SHIP"
	ShipCourier ShipType = "COURIER"
	ShipMail    ShipType = "MAIL"
)

// CardType is the payment card network.
type CardType string

const (
	CardVisa       CardType = "VISA"
	CardMastercard CardType = "MASTERCARD"
	CardDiscover   CardType = "DISCOVER"
	CardAmex       CardType = "AMEX"
	CardDiners     CardType = "DINERS"
)

// PaymentInfo is the card detail presented at checkout. The core keeps
// only the derived payment reference on the order, never the card number.
type PaymentInfo struct {
	CardType CardType  `json:"cardType"`
	Number   string    `json:"number"`
	Name     string    `json:"name"`
	Expiry   time.Time `json:"expiry,omitzero"`
}

// OrderLine freezes one purchased position: the quantity and the unit
// price in effect when the order was confirmed.
type OrderLine struct {
	BookID    string  `json:"bookId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is a confirmed purchase, owned by the shard that created it.
// Seq is the shard-local creation sequence and strictly increases.
type Order struct {
	ID         string      `json:"id"`
	Seq        uint64      `json:"seq"`
	ShardID    string      `json:"shardId"`
	CustomerID string      `json:"customerId"`
	Status     OrderStatus `json:"status"`
	Lines      []OrderLine `json:"lines"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`

	ShipType ShipType  `json:"shipType"`
	ShipDate time.Time `json:"shipDate"`

	ShippingAddressID string `json:"shippingAddressId,omitempty"`
	BillingAddressID  string `json:"billingAddressId,omitempty"`
	PaymentRef        string `json:"paymentRef"`

	CreatedAt time.Time `json:"createdAt"`
	ShippedAt time.Time `json:"shippedAt,omitzero"`
}

// Units returns the total quantity across all lines.
func (o *Order) Units() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns a deep copy safe to hand outside the owning shard.
func (o *Order) Clone() Order {
	out := *o
	out.Lines = make([]OrderLine, len(o.Lines))
	copy(out.Lines, o.Lines)
	return out
}

// BestsellerEntry pairs a book with its shipped sales volume.
type BestsellerEntry struct {
	Book       Book `json:"book"`
	SalesCount int  `json:"salesCount"`
}
