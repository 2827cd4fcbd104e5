// Package domain contains the core entities of the book market.
package domain

import "time"

// MaxRelatedBooks caps the related-books list carried by each book.
const MaxRelatedBooks = 5

// Book is a catalog entry. Everything except the admin-updatable
// presentation fields (Image, Thumbnail) is immutable after creation.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"authorId"`
	Subject     Subject   `json:"subject"`
	Description string    `json:"description,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	// SRP is the suggested retail price, the pricing fallback when no
	// sales or stock evidence exists.
	SRP float64 `json:"srp"`
	// RelatedIDs lists up to MaxRelatedBooks frequently-bought-together books.
	RelatedIDs []string  `json:"relatedIds,omitempty"`
	Image      string    `json:"image,omitempty"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RelatedTo reports whether other is in the book's related list.
func (b *Book) RelatedTo(other string) bool {
	for _, id := range b.RelatedIDs {
		if id == other {
			return true
		}
	}
	return false
}

// Author is a book author.
type Author struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	Bio        string    `json:"bio,omitempty"`
	BirthDate  time.Time `json:"birthDate,omitzero"`
}

// FullName returns the author's display name.
func (a *Author) FullName() string {
	name := a.FirstName
	if a.MiddleName != "" {
		name += " " + a.MiddleName
	}
	if a.LastName != "" {
		name += " " + a.LastName
	}
	return name
}
