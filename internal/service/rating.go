package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/repository"
)

const maxCommentLen = 400

// RateRequest carries a rating submission.
type RateRequest struct {
	BookingID string
	Stars     int
	Comment   string
}

// RatingService records post-ride reviews between a booking's parties
// and rolls them up into the ratee's average.
type RatingService struct {
	txm         repository.TxManager
	ratingRepo  repository.RatingRepository
	bookingRepo repository.BookingRepository
	tripRepo    repository.TripRepository
	userRepo    repository.UserRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	txm repository.TxManager,
	ratingRepo repository.RatingRepository,
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
) *RatingService {
	return &RatingService{
		txm:         txm,
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		userRepo:    userRepo,
	}
}

// Rate records the caller's review of the other party on a booking.
// The booking's trip must be CLOSED; a rider rates the driver and the
// driver rates the rider; each party rates a booking at most once. The
// ratee's average and count update in the same transaction.
func (s *RatingService) Rate(ctx context.Context, raterID string, req RateRequest) (*domain.Rating, error) {
	if raterID == "" {
		return nil, ErrUnauthenticated
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Stars < 1 || req.Stars > 5 {
		return nil, ErrInvalidStars
	}
	if len(req.Comment) > maxCommentLen {
		return nil, ErrInvalidComment
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}

	var rateeID string
	switch raterID {
	case booking.RiderID:
		rateeID = trip.DriverID
	case trip.DriverID:
		rateeID = booking.RiderID
	default:
		return nil, ErrNotBookingParty
	}

	if trip.Status != domain.TripStatusClosed {
		return nil, ErrTripNotClosed
	}

	if _, err := s.ratingRepo.GetByBookingAndRater(ctx, req.BookingID, raterID); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rating := &domain.Rating{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		RaterID:   raterID,
		RateeID:   rateeID,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		// The unique constraint backstops the pre-check under racing
		// submissions.
		if err := tx.Ratings().Create(ctx, rating); err != nil {
			if errors.Is(err, repository.ErrDuplicateRating) {
				return ErrAlreadyRated
			}
			return err
		}

		ratee, err := tx.Users().GetByIDForUpdate(ctx, rateeID)
		if err != nil {
			return err
		}
		total := ratee.RatingAvg*float64(ratee.RatingCount) + float64(req.Stars)
		ratee.RatingCount++
		ratee.RatingAvg = total / float64(ratee.RatingCount)
		return tx.Users().Update(ctx, ratee)
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}
