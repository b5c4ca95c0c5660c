package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/middleware"
	"github.com/LZPPS/routelink/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// RequestBookingRequest is the HTTP request body for requesting a booking.
type RequestBookingRequest struct {
	TripID string `json:"trip_id"`
	Seats  int    `json:"seats"`
}

// BookingResponse is the HTTP response for booking data.
type BookingResponse struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	RiderID   string `json:"rider_id"`
	Seats     int    `json:"seats"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// TripBookingResponse is a booking with rider contact, for the
// driver's dashboard.
type TripBookingResponse struct {
	BookingResponse
	RiderName  string `json:"rider_name"`
	RiderEmail string `json:"rider_email"`
	RiderPhone string `json:"rider_phone,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		TripID:    b.TripID,
		RiderID:   b.RiderID,
		Seats:     b.Seats,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Request handles POST /v1/bookings/request
func (h *BookingHandler) Request(c *gin.Context) {
	var req RequestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.Request(c.Request.Context(), middleware.CallerID(c), req.TripID, req.Seats)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Confirm handles POST /v1/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	booking, err := h.bookingService.Confirm(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Decline handles POST /v1/bookings/:id/decline
func (h *BookingHandler) Decline(c *gin.Context) {
	booking, err := h.bookingService.Decline(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookingService.Cancel(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Mine handles GET /v1/bookings/me
func (h *BookingHandler) Mine(c *gin.Context) {
	bookings, err := h.bookingService.BookingsForRider(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, gin.H{"bookings": out})
}

// ContactResponse is the HTTP response for a booking's driver contact
// card. Email and phone are masked until the booking is confirmed.
type ContactResponse struct {
	DriverName  string `json:"driver_name"`
	DriverEmail string `json:"driver_email"`
	DriverPhone string `json:"driver_phone"`
}

// Contact handles GET /v1/bookings/:id/contact
func (h *BookingHandler) Contact(c *gin.Context) {
	info, err := h.bookingService.Contact(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, ContactResponse{
		DriverName:  info.DriverName,
		DriverEmail: info.DriverEmail,
		DriverPhone: info.DriverPhone,
	})
}

// ForTrip handles GET /v1/bookings/trip/:tripId
func (h *BookingHandler) ForTrip(c *gin.Context) {
	rows, err := h.bookingService.BookingsForTrip(c.Request.Context(), middleware.CallerID(c), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripBookingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, TripBookingResponse{
			BookingResponse: toBookingResponse(row.Booking),
			RiderName:       row.Rider.Name,
			RiderEmail:      row.Rider.Email,
			RiderPhone:      row.Rider.Phone,
		})
	}
	respondJSON(c, http.StatusOK, gin.H{"bookings": out})
}
