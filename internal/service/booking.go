package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/redis"
	"github.com/LZPPS/routelink/internal/repository"
)

// BookingService is the transactional state machine driving booking
// lifecycle transitions and the trip seat inventory they touch.
//
// Validation and authorization run before any lock is taken; state
// checks are repeated on locked rows inside the transaction. Operations
// that mutate both rows lock the booking row first, then the trip row,
// so every path agrees on lock order. Notifications run post-commit and
// never hold a lock.
type BookingService struct {
	txm           repository.TxManager
	bookingRepo   repository.BookingRepository
	tripRepo      repository.TripRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
	cache         redis.TripCacheInterface
}

// NewBookingService creates a new BookingService. cache may be nil.
func NewBookingService(
	txm repository.TxManager,
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	cache redis.TripCacheInterface,
) *BookingService {
	return &BookingService{
		txm:           txm,
		bookingRepo:   bookingRepo,
		tripRepo:      tripRepo,
		userRepo:      userRepo,
		notifications: notifications,
		cache:         cache,
	}
}

// Request creates a REQUESTED booking for the rider on the trip, or
// resurrects the rider's stale DECLINED/CANCELLED row. Trip seat
// counters are untouched; capacity is reserved only at confirmation.
func (s *BookingService) Request(ctx context.Context, riderID, tripID string, seats int) (*domain.Booking, error) {
	if riderID == "" {
		return nil, ErrUnauthenticated
	}
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if seats < 1 {
		return nil, ErrInvalidSeats
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.Bookable() {
		return nil, ErrTripNotBookable
	}
	if trip.DriverID == riderID {
		return nil, ErrOwnTrip
	}

	var booking *domain.Booking
	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		existing, err := tx.Bookings().GetByTripAndRider(ctx, tripID, riderID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if existing != nil {
			if existing.Live() {
				return ErrDuplicateBooking
			}
			existing.Seats = seats
			existing.Status = domain.BookingStatusRequested
			if err := tx.Bookings().Update(ctx, existing); err != nil {
				return err
			}
			booking = existing
			return nil
		}

		booking = &domain.Booking{
			ID:        uuid.New().String(),
			TripID:    tripID,
			RiderID:   riderID,
			Seats:     seats,
			Status:    domain.BookingStatusRequested,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			// the uniqueness constraint caught a racing request
			if errors.Is(err, repository.ErrDuplicateBooking) {
				return ErrDuplicateBooking
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm moves a REQUESTED booking to CONFIRMED and reserves its seats
// on the trip. When the last seat goes, the trip flips to FULL and is
// hidden from search. Both parties are emailed after commit.
func (s *BookingService) Confirm(ctx context.Context, driverID, bookingID string) (*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	// authorization on unlocked reads; state re-checked under locks
	pre, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	preTrip, err := s.tripRepo.GetByID(ctx, pre.TripID)
	if err != nil {
		return nil, err
	}
	if preTrip.DriverID != driverID {
		return nil, ErrNotTripDriver
	}

	var booking *domain.Booking
	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.Bookings().GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		t, err := tx.Trips().GetByIDForUpdate(ctx, b.TripID)
		if err != nil {
			return err
		}

		if t.Status == domain.TripStatusClosed {
			return ErrTripClosed
		}
		if b.Status != domain.BookingStatusRequested {
			return ErrBookingNotRequested
		}
		if t.SeatsLeft < b.Seats {
			return ErrNotEnoughSeats
		}

		t.SeatsLeft -= b.Seats
		if t.SeatsLeft == 0 {
			t.Status = domain.TripStatusFull
			t.Active = false
		}
		if err := tx.Trips().Update(ctx, t); err != nil {
			return err
		}

		b.Status = domain.BookingStatusConfirmed
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking = b

		rider, err := tx.Users().GetByID(ctx, b.RiderID)
		if err != nil {
			return err
		}
		driver, err := tx.Users().GetByID(ctx, t.DriverID)
		if err != nil {
			return err
		}

		bSnap, tSnap := *b, *t
		tx.AfterCommit(func() {
			s.invalidateTrip(ctx, tSnap.ID)
			s.notifications.NotifyBookingConfirmed(ctx, &bSnap, &tSnap, rider, driver)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Decline moves a REQUESTED booking to DECLINED. No seats were reserved
// so the trip is untouched. The rider is emailed after commit.
func (s *BookingService) Decline(ctx context.Context, driverID, bookingID string) (*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	pre, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	preTrip, err := s.tripRepo.GetByID(ctx, pre.TripID)
	if err != nil {
		return nil, err
	}
	if preTrip.DriverID != driverID {
		return nil, ErrNotTripDriver
	}

	var booking *domain.Booking
	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.Bookings().GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusRequested {
			return ErrBookingNotRequested
		}

		b.Status = domain.BookingStatusDeclined
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking = b

		rider, err := tx.Users().GetByID(ctx, b.RiderID)
		if err != nil {
			return err
		}
		driver, err := tx.Users().GetByID(ctx, preTrip.DriverID)
		if err != nil {
			return err
		}

		tSnap := *preTrip
		tx.AfterCommit(func() {
			s.notifications.NotifyBookingDeclined(ctx, &tSnap, rider, driver)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel moves the rider's booking to CANCELLED from either live state.
// Cancelling a CONFIRMED booking restores its seats to the trip and, if
// the trip was FULL, reopens it; a CLOSED trip is never auto-reopened.
// The driver is emailed after commit when seats were actually freed.
func (s *BookingService) Cancel(ctx context.Context, riderID, bookingID string) (*domain.Booking, error) {
	if riderID == "" {
		return nil, ErrUnauthenticated
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	pre, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if pre.RiderID != riderID {
		return nil, ErrNotBookingRider
	}

	var booking *domain.Booking
	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.Bookings().GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		wasConfirmed := b.Status == domain.BookingStatusConfirmed

		var tSnap *domain.Trip
		if wasConfirmed {
			t, err := tx.Trips().GetByIDForUpdate(ctx, b.TripID)
			if err != nil {
				return err
			}
			t.SeatsLeft += b.Seats
			if t.Status == domain.TripStatusFull && t.SeatsLeft > 0 {
				t.Status = domain.TripStatusOpen
			}
			if t.Status != domain.TripStatusClosed && t.SeatsLeft > 0 {
				t.Active = true
			}
			if err := tx.Trips().Update(ctx, t); err != nil {
				return err
			}
			snap := *t
			tSnap = &snap
		}

		b.Status = domain.BookingStatusCancelled
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		booking = b

		if wasConfirmed {
			rider, err := tx.Users().GetByID(ctx, b.RiderID)
			if err != nil {
				return err
			}
			driver, err := tx.Users().GetByID(ctx, tSnap.DriverID)
			if err != nil {
				return err
			}
			bSnap := *b
			tx.AfterCommit(func() {
				s.invalidateTrip(ctx, tSnap.ID)
				s.notifications.NotifyBookingCancelled(ctx, &bSnap, tSnap, rider, driver)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// BookingsForRider retrieves all bookings placed by the caller.
func (s *BookingService) BookingsForRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	if riderID == "" {
		return nil, ErrUnauthenticated
	}
	return s.bookingRepo.GetByRiderID(ctx, riderID)
}

// BookingWithRider pairs a booking with its rider's contact details for
// the driver's dashboard.
type BookingWithRider struct {
	Booking *domain.Booking
	Rider   *domain.User
}

// BookingsForTrip retrieves a trip's bookings with rider contact
// details. Only the trip's driver may call it.
func (s *BookingService) BookingsForTrip(ctx context.Context, driverID, tripID string) ([]BookingWithRider, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, ErrNotTripDriver
	}

	bookings, err := s.bookingRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingWithRider, 0, len(bookings))
	for _, b := range bookings {
		rider, err := s.userRepo.GetByID(ctx, b.RiderID)
		if err != nil {
			return nil, err
		}
		out = append(out, BookingWithRider{Booking: b, Rider: rider})
	}
	return out, nil
}

// ContactInfo is the driver's contact card shown to a booking's
// parties. Email and phone are masked until the booking is CONFIRMED.
type ContactInfo struct {
	DriverName  string
	DriverEmail string
	DriverPhone string
}

// Contact retrieves the driver's contact details for a booking. Only
// the booking's rider or the trip's driver may call it; anyone else
// gets ErrNotBookingParty.
func (s *BookingService) Contact(ctx context.Context, callerID, bookingID string) (*ContactInfo, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.RiderID && callerID != trip.DriverID {
		return nil, ErrNotBookingParty
	}

	driver, err := s.userRepo.GetByID(ctx, trip.DriverID)
	if err != nil {
		return nil, err
	}

	info := &ContactInfo{
		DriverName:  driver.Name,
		DriverEmail: driver.Email,
		DriverPhone: driver.Phone,
	}
	if booking.Status != domain.BookingStatusConfirmed {
		info.DriverEmail = maskEmail(driver.Email)
		info.DriverPhone = maskPhone(driver.Phone)
	}
	return info, nil
}

func (s *BookingService) invalidateTrip(ctx context.Context, tripID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateTrip(ctx, tripID)
	}
}
