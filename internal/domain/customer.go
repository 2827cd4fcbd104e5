package domain

import "time"

// SessionDuration is how long a customer session stays fresh after activity.
const SessionDuration = 2 * time.Hour

// Customer is a registered buyer.
type Customer struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AddressID string `json:"addressId,omitempty"`
	// Discount is a percentage in [0, 100]. Any positive discount marks
	// the customer as a subscriber for pricing purposes.
	Discount  float64   `json:"discount"`
	BirthDate time.Time `json:"birthDate,omitzero"`
	CreatedAt time.Time `json:"createdAt"`

	// Session bookkeeping.
	LastLoginAt      time.Time `json:"lastLoginAt,omitzero"`
	SessionExpiresAt time.Time `json:"sessionExpiresAt,omitzero"`
}

// IsSubscriber reports whether the customer gets subscriber pricing.
func (c *Customer) IsSubscriber() bool {
	return c.Discount > 0
}

// TouchSession records a login at now and extends the session window.
func (c *Customer) TouchSession(now time.Time) {
	c.LastLoginAt = now
	c.SessionExpiresAt = now.Add(SessionDuration)
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Address is a customer shipping or billing address. Addresses are
// deduplicated by their normalized field values.
type Address struct {
	ID      string `json:"id"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country"`
}
