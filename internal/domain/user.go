package domain

import "time"

// User represents an account that can publish trips (as a driver) or
// book seats (as a rider). The same account may do both; the roles are
// per-trip relations, not account attributes.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string

	// RatingAvg and RatingCount are rolled up incrementally as ratings
	// arrive; both are zero on a new account.
	RatingAvg   float64
	RatingCount int

	CreatedAt time.Time
}
