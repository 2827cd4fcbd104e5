package domain

import "time"

// Rating score bounds.
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is a customer's evaluation of a book. At most one rating exists
// per (customer, book) pair; re-rating overwrites the previous score.
type Rating struct {
	CustomerID string    `json:"customerId"`
	BookID     string    `json:"bookId"`
	Score      int       `json:"score"`
	RatedAt    time.Time `json:"ratedAt"`
}

// ValidScore reports whether score is inside the accepted range.
func ValidScore(score int) bool {
	return score >= MinRatingScore && score <= MaxRatingScore
}
