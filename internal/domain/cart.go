package domain

import "time"

// CartLine is one book position in a cart.
type CartLine struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// Cart is a shard-owned shopping cart. Lines keep insertion order.
// A cart is consumed by checkout and never reused.
type Cart struct {
	ID        string     `json:"id"`
	ShardID   string     `json:"shardId"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add increments the line for bookID by qty, appending a new line if the
// book is not in the cart yet.
func (c *Cart) Add(bookID string, qty int) {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{BookID: bookID, Quantity: qty})
}

// Remove deletes the line for bookID. Removing an absent book is a no-op.
func (c *Cart) Remove(bookID string) {
	for i := range c.Lines {
		if c.Lines[i].BookID == bookID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Line returns the line for bookID, if present.
func (c *Cart) Line(bookID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.BookID == bookID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy safe to hand outside the owning shard.
func (c *Cart) Clone() Cart {
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
