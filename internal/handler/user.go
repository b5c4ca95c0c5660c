package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/middleware"
	"github.com/LZPPS/routelink/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
	CreatedAt   string  `json:"created_at"`
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		RatingAvg:   u.RatingAvg,
		RatingCount: u.RatingCount,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_ARGUMENT", Error: "invalid request body"})
		return
	}

	token, user, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(user)})
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toUserResponse(user))
}
