package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/LZPPS/routelink/internal/handler"
	"github.com/LZPPS/routelink/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	TripHandler    *handler.TripHandler
	BookingHandler *handler.BookingHandler
	SearchHandler  *handler.SearchHandler
	RatingHandler  *handler.RatingHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	JWTSecret      string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	auth := middleware.RequireAuth(deps.JWTSecret)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.POST("/login", deps.UserHandler.Login)
			users.GET("/me", auth, deps.UserHandler.Me)
		}

		// Trip routes. Search routes go first so gin does not swallow
		// them with the :id parameter.
		trips := v1.Group("/trips")
		{
			trips.GET("/search", deps.SearchHandler.Browse)
			trips.GET("/search/near", deps.SearchHandler.Near)
			trips.GET("/search/route", deps.SearchHandler.Route)
			trips.GET("/search/unified", deps.SearchHandler.Unified)

			trips.GET("/mine", auth, deps.TripHandler.Mine)
			trips.POST("", auth, deps.TripHandler.Create)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.POST("/:id/close", auth, deps.TripHandler.Close)
			trips.POST("/:id/reopen", auth, deps.TripHandler.Reopen)
			trips.POST("/:id/complete", auth, deps.TripHandler.Complete)
			trips.POST("/:id/path", auth, deps.TripHandler.SetPath)
			trips.GET("/:id/path", deps.TripHandler.GetPath)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("/request", auth, deps.BookingHandler.Request)
			bookings.GET("/me", auth, deps.BookingHandler.Mine)
			bookings.GET("/trip/:tripId", auth, deps.BookingHandler.ForTrip)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.GET("/:id/contact", auth, deps.BookingHandler.Contact)
			bookings.POST("/:id/confirm", auth, deps.BookingHandler.Confirm)
			bookings.POST("/:id/decline", auth, deps.BookingHandler.Decline)
			bookings.POST("/:id/cancel", auth, deps.BookingHandler.Cancel)
		}

		// Rating routes.
		ratings := v1.Group("/ratings")
		{
			ratings.POST("", auth, deps.RatingHandler.Create)
		}
	}

	return router
}
