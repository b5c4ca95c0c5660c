package service

import "errors"

var (
	// ErrUnauthenticated is returned when no caller identity was supplied.
	ErrUnauthenticated = errors.New("no caller identity supplied")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidSeats is returned when the seat count is not positive.
	ErrInvalidSeats = errors.New("seats must be at least 1")

	// ErrInvalidPrice is returned when the per-seat price is negative.
	ErrInvalidPrice = errors.New("price per seat must not be negative")

	// ErrInvalidRideTime is returned when the scheduled ride time is missing.
	ErrInvalidRideTime = errors.New("ride time is required")

	// ErrInvalidPlace is returned when a start or end place label is missing.
	ErrInvalidPlace = errors.New("start and end places are required")

	// ErrInvalidPath is returned when a route path has fewer than two
	// points or an out-of-range coordinate.
	ErrInvalidPath = errors.New("path must contain at least two valid points")

	// ErrInvalidName is returned when a registration name is missing.
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidEmail is returned when an email address is missing or
	// malformed.
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidPassword is returned when a password is too short.
	ErrInvalidPassword = errors.New("password must be at least 8 characters")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned on a failed login. It does not
	// distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotTripDriver is returned when the caller does not own the trip.
	ErrNotTripDriver = errors.New("only the trip's driver can perform this action")

	// ErrNotBookingRider is returned when the caller does not own the booking.
	ErrNotBookingRider = errors.New("only the booking's rider can perform this action")

	// ErrTripNotBookable is returned when the trip is closed, full, or hidden.
	ErrTripNotBookable = errors.New("trip is not open for booking")

	// ErrOwnTrip is returned when a driver tries to book their own trip.
	ErrOwnTrip = errors.New("driver cannot book own trip")

	// ErrDuplicateBooking is returned when the rider already holds a live
	// booking on the trip.
	ErrDuplicateBooking = errors.New("you already have a booking for this trip")

	// ErrBookingNotRequested is returned when a confirm or decline targets
	// a booking that is not in REQUESTED state.
	ErrBookingNotRequested = errors.New("booking is not in requested state")

	// ErrTripClosed is returned when an operation requires a trip that is
	// not CLOSED.
	ErrTripClosed = errors.New("trip is closed")

	// ErrNotEnoughSeats is returned when confirming a booking would
	// overdraw the trip's remaining seats.
	ErrNotEnoughSeats = errors.New("not enough seats left")

	// ErrNoSeatsLeft is returned when reopening a trip with no capacity.
	ErrNoSeatsLeft = errors.New("cannot reopen: no seats left")

	// ErrInvalidStars is returned when a rating is outside the 1..5 range.
	ErrInvalidStars = errors.New("stars must be between 1 and 5")

	// ErrInvalidComment is returned when a rating comment is too long.
	ErrInvalidComment = errors.New("comment must be at most 400 characters")

	// ErrNotBookingParty is returned when the caller is neither the
	// booking's rider nor the trip's driver.
	ErrNotBookingParty = errors.New("only the booking's rider or driver can perform this action")

	// ErrTripNotClosed is returned when rating a booking whose trip has
	// not finished yet.
	ErrTripNotClosed = errors.New("trip is not closed yet")

	// ErrAlreadyRated is returned when the caller already rated the booking.
	ErrAlreadyRated = errors.New("you already rated this booking")
)
