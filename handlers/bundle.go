package handlers

import (
	"net/http"

	userRepo "deskhub/database/repository/user"
	"deskhub/services/booking"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates every endpoint handler plus the repositories
// the middleware needs, so route registration takes a single argument.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	// Auth endpoints.
	RegisterHandler gin.HandlerFunc
	LoginHandler    gin.HandlerFunc

	// Resource catalog endpoints.
	ListResourcesHandler gin.HandlerFunc
	GetResourceHandler   gin.HandlerFunc

	// Reservation endpoints.
	ListUpcomingHandler  gin.HandlerFunc
	CheckInHandler       gin.HandlerFunc
	CancelHandler        gin.HandlerFunc
	ExpireOverdueHandler gin.HandlerFunc
	RebuildIndexHandler  gin.HandlerFunc

	// Booking wizard endpoints.
	StartSessionHandler   gin.HandlerFunc
	SelectDateHandler     gin.HandlerFunc
	ToggleTimeslotHandler gin.HandlerFunc
	SelectRoomHandler     gin.HandlerFunc
	SelectDeskHandler     gin.HandlerFunc
	ConfirmHandler        gin.HandlerFunc
}

// respondBookingError maps a booking domain error onto an HTTP response.
// Conflict payloads carry the blocking reservation so clients can show
// what got in the way.
func respondBookingError(c *gin.Context, err error) {
	code := booking.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case booking.CodeValidation:
		status = http.StatusBadRequest
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeConflict, booking.CodeInvalidState, booking.CodeCheckInWindowClosed:
		status = http.StatusConflict
	case booking.CodeLocationRequired:
		status = http.StatusBadRequest
	case booking.CodeTooFarAway:
		status = http.StatusForbidden
	}

	if be, ok := err.(*booking.BookingError); ok {
		payload := gin.H{"error": be.Message, "code": be.Code}
		if be.Blocking != nil {
			payload["blocking"] = be.Blocking
		}
		c.JSON(status, payload)
		return
	}
	utils.JSONError(c, status, "request failed", err.Error())
}
