package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateBooking is returned when the (trip, rider) uniqueness
	// constraint rejects an insert. It backstops the existence pre-check
	// under racing requests.
	ErrDuplicateBooking = errors.New("booking already exists for this trip and rider")

	// ErrDuplicateEmail is returned when a user registration collides on email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateRating is returned when the (booking, rater) uniqueness
	// constraint rejects an insert.
	ErrDuplicateRating = errors.New("rating already exists for this booking and rater")
)
