package handlers

import (
	"net/http"

	"deskhub/middleware"
	"deskhub/services/booking"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the staged desk-selection wizard over HTTP. Each
// step returns the full session view so clients can render every stage
// from a single response.
type BookingHandler struct {
	Wizard booking.BookingWizardService
	Logger *zap.Logger
}

func NewBookingHandler(wizard booking.BookingWizardService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Wizard: wizard, Logger: logger}
}

// StartSessionHandler opens a wizard session for the caller.
func (h *BookingHandler) StartSessionHandler(c *gin.Context) {
	view, err := h.Wizard.StartSession(c.Request.Context(), middleware.AuthenticatedUserID(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectDateHandler sets or toggles the session's date.
func (h *BookingHandler) SelectDateHandler(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	view, err := h.Wizard.SelectDate(c.Request.Context(), c.Param("sessionID"), input.Date)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleTimeslotHandler adds or removes one timeslot from the selection.
// A rejected toggle is still a 200: the view's message explains it and the
// selection is unchanged.
func (h *BookingHandler) ToggleTimeslotHandler(c *gin.Context) {
	var input struct {
		Timeslot string `json:"timeslot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	view, err := h.Wizard.ToggleTimeslot(c.Request.Context(), c.Param("sessionID"), input.Timeslot)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectRoomHandler sets or toggles the session's room.
func (h *BookingHandler) SelectRoomHandler(c *gin.Context) {
	var input struct {
		RoomID string `json:"roomId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	view, err := h.Wizard.SelectRoom(c.Request.Context(), c.Param("sessionID"), input.RoomID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectDeskHandler sets or toggles the session's desk.
func (h *BookingHandler) SelectDeskHandler(c *gin.Context) {
	var input struct {
		DeskID string `json:"deskId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	view, err := h.Wizard.SelectDesk(c.Request.Context(), c.Param("sessionID"), input.DeskID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ConfirmHandler books the completed selection. On a conflict the caller
// gets the refreshed view with the desk cleared, so they can pick again
// without restarting the wizard.
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	result, err := h.Wizard.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if booking.IsConflict(err) && result != nil {
			if be, ok := err.(*booking.BookingError); ok {
				c.JSON(http.StatusConflict, gin.H{"error": be.Message, "code": be.Code, "view": result.View})
				return
			}
		}
		respondBookingError(c, err)
		return
	}
	h.Logger.Info("booking confirmed", zap.String("reservationID", result.Reservation.ID))
	c.JSON(http.StatusCreated, result)
}
