package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/geo"
	"github.com/LZPPS/routelink/internal/middleware"
	"github.com/LZPPS/routelink/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for publishing a trip.
type CreateTripRequest struct {
	StartPlace        string  `json:"start_place"`
	StartLat          float64 `json:"start_lat"`
	StartLng          float64 `json:"start_lng"`
	EndPlace          string  `json:"end_place"`
	EndLat            float64 `json:"end_lat"`
	EndLng            float64 `json:"end_lng"`
	RideAt            string  `json:"ride_at"` // RFC 3339
	PricePerSeatCents int64   `json:"price_per_seat_cents"`
	Seats             int     `json:"seats"`
}

// PathPoint is one coordinate of a trip route.
type PathPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SetPathRequest is the HTTP request body for setting a trip route.
type SetPathRequest struct {
	Points []PathPoint `json:"points"`
}

// TripResponse is the HTTP response for trip data.
type TripResponse struct {
	ID                string  `json:"id"`
	DriverID          string  `json:"driver_id"`
	StartPlace        string  `json:"start_place"`
	StartLat          float64 `json:"start_lat"`
	StartLng          float64 `json:"start_lng"`
	EndPlace          string  `json:"end_place"`
	EndLat            float64 `json:"end_lat"`
	EndLng            float64 `json:"end_lng"`
	Polyline          string  `json:"polyline,omitempty"`
	RideAt            string  `json:"ride_at"`
	PricePerSeatCents int64   `json:"price_per_seat_cents"`
	SeatsTotal        int     `json:"seats_total"`
	SeatsLeft         int     `json:"seats_left"`
	Status            string  `json:"status"`
	Active            bool    `json:"active"`
	CreatedAt         string  `json:"created_at"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                t.ID,
		DriverID:          t.DriverID,
		StartPlace:        t.StartPlace,
		StartLat:          t.StartLat,
		StartLng:          t.StartLng,
		EndPlace:          t.EndPlace,
		EndLat:            t.EndLat,
		EndLng:            t.EndLng,
		Polyline:          t.Polyline,
		RideAt:            t.RideAt.UTC().Format(time.RFC3339),
		PricePerSeatCents: t.PricePerSeatCents,
		SeatsTotal:        t.SeatsTotal,
		SeatsLeft:         t.SeatsLeft,
		Status:            string(t.Status),
		Active:            t.Active,
		CreatedAt:         t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	rideAt, err := time.Parse(time.RFC3339, req.RideAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "ride_at must be RFC 3339"})
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), middleware.CallerID(c), service.CreateTripRequest{
		StartPlace:        req.StartPlace,
		StartLat:          req.StartLat,
		StartLng:          req.StartLng,
		EndPlace:          req.EndPlace,
		EndLat:            req.EndLat,
		EndLng:            req.EndLng,
		RideAt:            rideAt,
		PricePerSeatCents: req.PricePerSeatCents,
		Seats:             req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// Get handles GET /v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Mine handles GET /v1/trips/mine
func (h *TripHandler) Mine(c *gin.Context) {
	trips, err := h.tripService.GetByDriver(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	respondJSON(c, http.StatusOK, gin.H{"trips": out})
}

// Close handles POST /v1/trips/:id/close
func (h *TripHandler) Close(c *gin.Context) {
	trip, err := h.tripService.Close(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Reopen handles POST /v1/trips/:id/reopen
func (h *TripHandler) Reopen(c *gin.Context) {
	trip, err := h.tripService.Reopen(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Complete handles POST /v1/trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	trip, err := h.tripService.Complete(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// SetPath handles POST /v1/trips/:id/path
func (h *TripHandler) SetPath(c *gin.Context) {
	var req SetPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	points := make([]geo.Point, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, geo.Point{Lat: p.Lat, Lng: p.Lng})
	}

	encoded, err := h.tripService.SetPath(c.Request.Context(), middleware.CallerID(c), c.Param("id"), points)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"polyline": encoded})
}

// GetPath handles GET /v1/trips/:id/path
func (h *TripHandler) GetPath(c *gin.Context) {
	decoded, err := h.tripService.GetPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	points := make([]PathPoint, 0, len(decoded))
	for _, p := range decoded {
		points = append(points, PathPoint{Lat: p.Lat, Lng: p.Lng})
	}
	respondJSON(c, http.StatusOK, gin.H{"points": points})
}
