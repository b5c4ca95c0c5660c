package domain

import "time"

// Rating is one party's review of the other after a completed trip.
// The rater is always the booking's rider or the trip's driver; the
// ratee is the opposite party. A (booking, rater) pair is unique.
type Rating struct {
	ID        string
	BookingID string
	RaterID   string
	RateeID   string
	Stars     int
	Comment   string
	CreatedAt time.Time
}
