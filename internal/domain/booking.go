package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusRequested BookingStatus = "REQUESTED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusDeclined  BookingStatus = "DECLINED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking represents one rider's reservation claim against a trip's
// seat inventory. At most one live (REQUESTED or CONFIRMED) booking may
// exist per (trip, rider) pair; a stale DECLINED or CANCELLED row is
// reused when the rider requests again.
type Booking struct {
	ID        string
	TripID    string
	RiderID   string
	Seats     int
	Status    BookingStatus
	CreatedAt time.Time
}

// Live reports whether the booking currently holds a claim on the trip.
func (b *Booking) Live() bool {
	return b.Status == BookingStatusRequested || b.Status == BookingStatusConfirmed
}
