package store

import apperrors "github.com/bookmarketapp/bookmarket-server/internal/errors"

// Sentinel errors returned by store operations. All carry domain error
// codes so callers can match with errors.Is against the shared sentinels.
var (
	ErrBookNotFound     = apperrors.NotFound("book not found")
	ErrBookExists       = apperrors.AlreadyExists("book already exists")
	ErrAuthorNotFound   = apperrors.NotFound("author not found")
	ErrAuthorExists     = apperrors.AlreadyExists("author already exists")
	ErrCustomerNotFound = apperrors.NotFound("customer not found")
	ErrCustomerExists   = apperrors.AlreadyExists("customer already exists")
	ErrAddressNotFound  = apperrors.NotFound("address not found")
	ErrRatingNotFound   = apperrors.NotFound("rating not found")
)
