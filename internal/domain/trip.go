package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusOpen   TripStatus = "OPEN"
	TripStatusFull   TripStatus = "FULL"
	TripStatusClosed TripStatus = "CLOSED"
)

// Trip represents a driver-published ride offering a fixed seat inventory
// between two points at a scheduled time.
//
// Invariants maintained by the reservation coordinator:
// 0 <= SeatsLeft <= SeatsTotal; status FULL implies SeatsLeft == 0;
// status CLOSED implies Active == false.
type Trip struct {
	ID                string
	DriverID          string // owner, never mutated after creation
	StartPlace        string
	StartLat          float64
	StartLng          float64
	EndPlace          string
	EndLat            float64
	EndLng            float64
	Polyline          string // encoded route path, optional
	RideAt            time.Time
	PricePerSeatCents int64
	SeatsTotal        int
	SeatsLeft         int
	Status            TripStatus
	Active            bool // visibility in search
	CreatedAt         time.Time
}

// Bookable reports whether the trip can accept new booking requests.
func (t *Trip) Bookable() bool {
	return t.Active && t.Status == TripStatusOpen
}
