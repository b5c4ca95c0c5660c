package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/middleware"
	"github.com/LZPPS/routelink/internal/service"
)

// RatingHandler handles HTTP requests for post-ride ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// CreateRatingRequest is the HTTP request body for submitting a rating.
type CreateRatingRequest struct {
	BookingID string `json:"booking_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
}

// RatingResponse is the HTTP response for rating data.
type RatingResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	RaterID   string `json:"rater_id"`
	RateeID   string `json:"ratee_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		RaterID:   r.RaterID,
		RateeID:   r.RateeID,
		Stars:     r.Stars,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/ratings
func (h *RatingHandler) Create(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), middleware.CallerID(c), service.RateRequest{
		BookingID: req.BookingID,
		Stars:     req.Stars,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toRatingResponse(rating))
}
