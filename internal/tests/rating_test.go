package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/service"
)

// ──────────────────────────────────────────────
// FIXTURES
// ──────────────────────────────────────────────

type ratingFixture struct {
	trips    *MockTripRepository
	bookings *MockBookingRepository
	users    *MockUserRepository
	ratings  *MockRatingRepository
	svc      *service.RatingService
}

func newRatingFixture() *ratingFixture {
	trips := NewMockTripRepository()
	bookings := NewMockBookingRepository()
	users := NewMockUserRepository()
	ratings := NewMockRatingRepository()
	txm := NewMockTxManager(trips, bookings, users, ratings)

	return &ratingFixture{
		trips:    trips,
		bookings: bookings,
		users:    users,
		ratings:  ratings,
		svc:      service.NewRatingService(txm, ratings, bookings, trips, users),
	}
}

func (f *ratingFixture) addUser(id string) *domain.User {
	u := &domain.User{
		ID:        id,
		Name:      id,
		Email:     id + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	f.users.AddUser(u)
	return u
}

// addClosedBooking sets up a driver, a rider and a closed trip with one
// confirmed booking between them.
func (f *ratingFixture) addClosedBooking(bookingID, tripID, driverID, riderID string) {
	f.addUser(driverID)
	f.addUser(riderID)
	f.trips.AddTrip(&domain.Trip{
		ID:                tripID,
		DriverID:          driverID,
		StartPlace:        "Hubli",
		EndPlace:          "Bengaluru",
		RideAt:            time.Now().UTC().Add(-24 * time.Hour),
		PricePerSeatCents: 45000,
		SeatsTotal:        3,
		SeatsLeft:         2,
		Status:            domain.TripStatusClosed,
		Active:            false,
		CreatedAt:         time.Now().UTC(),
	})
	f.bookings.AddBooking(&domain.Booking{
		ID:        bookingID,
		TripID:    tripID,
		RiderID:   riderID,
		Seats:     1,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: time.Now().UTC(),
	})
}

// ──────────────────────────────────────────────
// 1. RATE
// ──────────────────────────────────────────────

func TestRate_RiderRatesDriver(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")

	rating, err := f.svc.Rate(context.Background(), "rider-1", service.RateRequest{
		BookingID: "bk-1",
		Stars:     4,
		Comment:   "smooth ride",
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}

	if rating.RaterID != "rider-1" || rating.RateeID != "driver-1" {
		t.Errorf("rater/ratee = %s/%s, want rider-1/driver-1", rating.RaterID, rating.RateeID)
	}
	if stored := f.ratings.GetRating(rating.ID); stored == nil || stored.Stars != 4 {
		t.Errorf("stored rating = %+v, want stars 4", stored)
	}

	driver, _ := f.users.GetByID(context.Background(), "driver-1")
	if driver.RatingCount != 1 {
		t.Errorf("rating_count = %d, want 1", driver.RatingCount)
	}
	if driver.RatingAvg != 4.0 {
		t.Errorf("rating_avg = %v, want 4.0", driver.RatingAvg)
	}
}

func TestRate_DriverRatesRider(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")

	rating, err := f.svc.Rate(context.Background(), "driver-1", service.RateRequest{
		BookingID: "bk-1",
		Stars:     5,
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}

	if rating.RateeID != "rider-1" {
		t.Errorf("ratee = %s, want rider-1", rating.RateeID)
	}
	rider, _ := f.users.GetByID(context.Background(), "rider-1")
	if rider.RatingAvg != 5.0 || rider.RatingCount != 1 {
		t.Errorf("rider roll-up = %v/%d, want 5.0/1", rider.RatingAvg, rider.RatingCount)
	}
}

func TestRate_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raterID string
		req     service.RateRequest
		wantErr error
	}{
		{"no caller identity", "", service.RateRequest{BookingID: "bk-1", Stars: 3}, service.ErrUnauthenticated},
		{"empty booking id", "rider-1", service.RateRequest{Stars: 3}, service.ErrInvalidBookingID},
		{"zero stars", "rider-1", service.RateRequest{BookingID: "bk-1"}, service.ErrInvalidStars},
		{"six stars", "rider-1", service.RateRequest{BookingID: "bk-1", Stars: 6}, service.ErrInvalidStars},
		{"comment too long", "rider-1", service.RateRequest{
			BookingID: "bk-1", Stars: 3, Comment: strings.Repeat("x", 401),
		}, service.ErrInvalidComment},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newRatingFixture()
			f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")

			_, err := f.svc.Rate(context.Background(), tc.raterID, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRate_RequiresClosedTrip(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")
	trip := f.trips.GetTrip("trip-1")
	trip.Status = domain.TripStatusOpen
	trip.Active = true
	f.trips.AddTrip(trip)

	_, err := f.svc.Rate(context.Background(), "rider-1", service.RateRequest{BookingID: "bk-1", Stars: 5})
	if !errors.Is(err, service.ErrTripNotClosed) {
		t.Errorf("err = %v, want ErrTripNotClosed", err)
	}
	if driver, _ := f.users.GetByID(context.Background(), "driver-1"); driver.RatingCount != 0 {
		t.Errorf("rating_count = %d, want 0", driver.RatingCount)
	}
}

func TestRate_PartiesOnly(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")
	f.addUser("stranger")

	_, err := f.svc.Rate(context.Background(), "stranger", service.RateRequest{BookingID: "bk-1", Stars: 5})
	if !errors.Is(err, service.ErrNotBookingParty) {
		t.Errorf("err = %v, want ErrNotBookingParty", err)
	}
}

func TestRate_OncePerBookingAndRater(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")

	ctx := context.Background()
	if _, err := f.svc.Rate(ctx, "rider-1", service.RateRequest{BookingID: "bk-1", Stars: 4}); err != nil {
		t.Fatalf("first rate: %v", err)
	}

	_, err := f.svc.Rate(ctx, "rider-1", service.RateRequest{BookingID: "bk-1", Stars: 2})
	if !errors.Is(err, service.ErrAlreadyRated) {
		t.Errorf("repeat err = %v, want ErrAlreadyRated", err)
	}

	// The other party still gets their one rating on the same booking.
	if _, err := f.svc.Rate(ctx, "driver-1", service.RateRequest{BookingID: "bk-1", Stars: 5}); err != nil {
		t.Errorf("driver rate err = %v, want nil", err)
	}

	driver, _ := f.users.GetByID(ctx, "driver-1")
	if driver.RatingCount != 1 || driver.RatingAvg != 4.0 {
		t.Errorf("driver roll-up = %v/%d, want 4.0/1", driver.RatingAvg, driver.RatingCount)
	}
}

func TestRate_IncrementalAverage(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addClosedBooking("bk-1", "trip-1", "driver-1", "rider-1")
	f.addUser("rider-2")
	f.bookings.AddBooking(&domain.Booking{
		ID:        "bk-2",
		TripID:    "trip-1",
		RiderID:   "rider-2",
		Seats:     1,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: time.Now().UTC(),
	})

	ctx := context.Background()
	if _, err := f.svc.Rate(ctx, "rider-1", service.RateRequest{BookingID: "bk-1", Stars: 5}); err != nil {
		t.Fatalf("rate 1: %v", err)
	}
	if _, err := f.svc.Rate(ctx, "rider-2", service.RateRequest{BookingID: "bk-2", Stars: 2}); err != nil {
		t.Fatalf("rate 2: %v", err)
	}

	driver, _ := f.users.GetByID(ctx, "driver-1")
	if driver.RatingCount != 2 {
		t.Errorf("rating_count = %d, want 2", driver.RatingCount)
	}
	if driver.RatingAvg != 3.5 {
		t.Errorf("rating_avg = %v, want 3.5", driver.RatingAvg)
	}
}

func TestRate_UnknownBooking(t *testing.T) {
	t.Parallel()

	f := newRatingFixture()
	f.addUser("rider-1")

	_, err := f.svc.Rate(context.Background(), "rider-1", service.RateRequest{BookingID: "bk-missing", Stars: 3})
	if err == nil {
		t.Fatal("expected an error for a missing booking")
	}
}
