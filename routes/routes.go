package routes

import (
	"net/http"
	"time"

	"deskhub/handlers"
	"deskhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public auth endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterResourceRoutes registers the room/desk catalog endpoints.
func RegisterResourceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/resources")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.ListResourcesHandler)
		api.GET("/:id", hb.GetResourceHandler)
	}
}

// RegisterReservationRoutes registers the reservation lifecycle endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/upcoming", hb.ListUpcomingHandler)
		api.POST("/:id/check-in", hb.CheckInHandler)
		api.DELETE("/:id", hb.CancelHandler)
		api.POST("/expire-overdue", hb.ExpireOverdueHandler)
		api.POST("/rebuild-index", hb.RebuildIndexHandler)
	}
}

// RegisterBookingRoutes registers the desk-selection wizard endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/session", hb.StartSessionHandler)
		api.PUT("/session/:sessionID/date", hb.SelectDateHandler)
		api.PUT("/session/:sessionID/timeslot", hb.ToggleTimeslotHandler)
		api.PUT("/session/:sessionID/room", hb.SelectRoomHandler)
		api.PUT("/session/:sessionID/desk", hb.SelectDeskHandler)
		api.POST("/session/:sessionID/confirm", hb.ConfirmHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterResourceRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
