package review

import "errors"

// Module errors.
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrAlreadyExists  = errors.New("user already reviewed this hotel")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrForbidden      = errors.New("forbidden")
)
