package shard

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"
	"github.com/bookmarketapp/bookmarket-server/internal/id"
)

// Ship dates land uniformly between one and seven days after checkout.
const (
	minShipDelayDays = 1
	maxShipDelayDays = 7
)

// CheckoutParams carries everything ConfirmPurchase needs beyond the
// shard's own state.
type CheckoutParams struct {
	CartID   string
	Customer domain.Customer
	ShipType domain.ShipType
	Payment  domain.PaymentInfo

	ShippingAddressID string
	BillingAddressID  string

	Now time.Time
}

// ConfirmPurchase atomically turns a cart into a PENDING order.
//
// Inside one critical section it:
//  1. auto-fills an empty cart with one random stocked book,
//  2. freezes unit prices from the shard's current stock costs,
//  3. assigns the next shard-local order sequence,
//  4. draws a ship date 1 to 7 days out,
//  5. decrements stock and restocks holdings that fall below threshold,
//  6. retires the cart.
//
// The cart id is invalid afterwards regardless of which customer checks out.
func (s *Store) ConfirmPurchase(params CheckoutParams) (domain.Order, error) {
	orderID, err := id.Generate("order")
	if err != nil {
		return domain.Order{}, apperrors.Wrap(err, apperrors.CodeInternal, "generate order id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[params.CartID]
	if !ok {
		return domain.Order{}, ErrCartNotFound
	}

	// A checkout never produces an empty order: an empty cart gets one
	// random book from this shard's holdings.
	if cart.Empty() {
		if len(s.stockedIDs) == 0 {
			return domain.Order{}, apperrors.IllegalState("cannot auto-fill cart, shard holds no stock")
		}
		pick := s.stockedIDs[s.rng.IntN(len(s.stockedIDs))]
		cart.Add(pick, 1)
	}

	// Freeze prices and move stock inside the same critical section so the
	// order never observes a cost newer than the stock it consumed.
	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	subtotal := 0.0
	for _, cl := range cart.Lines {
		stock, stocked := s.stocks[cl.BookID]
		if !stocked {
			return domain.Order{}, ErrStockNotFound.WithDetails(map[string]string{"book": cl.BookID})
		}
		lines = append(lines, domain.OrderLine{
			BookID:    cl.BookID,
			Quantity:  cl.Quantity,
			UnitPrice: stock.Cost,
		})
		subtotal += stock.Cost * float64(cl.Quantity)
	}

	for _, line := range lines {
		stock := s.stocks[line.BookID]
		stock.Quantity -= line.Quantity
		if stock.Quantity < s.restockThreshold {
			stock.Quantity += s.restockQuantity
		}
	}

	s.orderSeq++
	shipDelay := time.Duration(minShipDelayDays+s.rng.IntN(maxShipDelayDays)) * 24 * time.Hour

	order := &domain.Order{
		ID:                orderID,
		Seq:               s.orderSeq,
		ShardID:           s.id,
		CustomerID:        params.Customer.ID,
		Status:            domain.OrderPending,
		Lines:             lines,
		Subtotal:          subtotal,
		Discount:          params.Customer.Discount,
		Total:             subtotal * (1 - params.Customer.Discount/100),
		ShipType:          params.ShipType,
		ShipDate:          params.Now.Add(shipDelay),
		ShippingAddressID: params.ShippingAddressID,
		BillingAddressID:  params.BillingAddressID,
		PaymentRef:        uuid.NewString(),
		CreatedAt:         params.Now,
	}

	s.orders[order.ID] = order
	s.orderLog = append(s.orderLog, order)
	delete(s.carts, params.CartID)

	s.logger.Info("purchase confirmed",
		"shard", s.id,
		"order", order.ID,
		"seq", order.Seq,
		"customer", params.Customer.ID,
		"lines", len(order.Lines),
		"total", order.Total,
	)
	return order.Clone(), nil
}
