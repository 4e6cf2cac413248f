package handlers

import (
	"net/http"

	"deskhub/middleware"
	"deskhub/services/booking"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler serves the reservation lifecycle endpoints.
type ReservationHandler struct {
	Engine booking.ReservationEngine
	Logger *zap.Logger
}

func NewReservationHandler(engine booking.ReservationEngine, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Engine: engine, Logger: logger}
}

// ListUpcomingHandler returns the caller's reservations grouped by date.
// Overdue reservations are expired first so the listing never shows a
// reservation the sweep would cancel moments later.
func (h *ReservationHandler) ListUpcomingHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	ctx := c.Request.Context()

	if _, err := h.Engine.ExpireOverdueForUser(ctx, userID); err != nil {
		h.Logger.Warn("pre-listing expiry sweep failed", zap.String("userID", userID), zap.Error(err))
	}

	days, err := h.Engine.ListUpcoming(ctx, userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// CheckInHandler completes a reservation. The client supplies its current
// position; whether it is required depends on the proximity configuration.
func (h *ReservationHandler) CheckInHandler(c *gin.Context) {
	var input struct {
		Position *booking.Coordinates `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Engine.CheckIn(c.Request.Context(), c.Param("id"), input.Position); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "checked in"})
}

// CancelHandler cancels a Reserved reservation.
func (h *ReservationHandler) CancelHandler(c *gin.Context) {
	err := h.Engine.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil && !booking.IsIndexSyncWarning(err) {
		respondBookingError(c, err)
		return
	}
	resp := gin.H{"status": "cancelled"}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// ExpireOverdueHandler runs the expiry sweep for the caller on demand.
func (h *ReservationHandler) ExpireOverdueHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	expired, err := h.Engine.ExpireOverdueForUser(c.Request.Context(), userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// RebuildIndexHandler recomputes the caller's denormalized reservation-id
// list from the reservations collection.
func (h *ReservationHandler) RebuildIndexHandler(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	if err := h.Engine.RebuildUserIndex(c.Request.Context(), userID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to rebuild reservation index", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rebuilt"})
}
