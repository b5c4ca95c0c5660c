package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/repository"
	"github.com/LZPPS/routelink/internal/service"
)

// ErrorResponse represents an error response. Code is a stable machine
// readable kind; Error is the human readable message.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	status, code := mapError(err)
	c.JSON(status, ErrorResponse{Code: code, Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps service/repository errors to an HTTP status and an
// error kind.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"

	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidSeats),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidRideTime),
		errors.Is(err, service.ErrInvalidPlace),
		errors.Is(err, service.ErrInvalidPath),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidStars),
		errors.Is(err, service.ErrInvalidComment):
		return http.StatusBadRequest, "INVALID_ARGUMENT"

	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHORIZED"

	case errors.Is(err, service.ErrNotTripDriver),
		errors.Is(err, service.ErrNotBookingRider),
		errors.Is(err, service.ErrNotBookingParty),
		errors.Is(err, service.ErrOwnTrip):
		return http.StatusForbidden, "FORBIDDEN"

	case errors.Is(err, service.ErrTripNotBookable),
		errors.Is(err, service.ErrDuplicateBooking),
		errors.Is(err, service.ErrBookingNotRequested),
		errors.Is(err, service.ErrTripClosed),
		errors.Is(err, service.ErrNotEnoughSeats),
		errors.Is(err, service.ErrNoSeatsLeft),
		errors.Is(err, service.ErrTripNotClosed),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "CONFLICT"

	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
