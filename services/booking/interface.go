package booking

import (
	"context"

	"deskhub/models"
)

// ReservationEngine owns the reservation lifecycle and the availability
// template maintenance around it.
type ReservationEngine interface {
	CreateReservation(ctx context.Context, deskID, userID, isoDate string, slots []string) (*models.Reservation, error)
	CheckIn(ctx context.Context, reservationID string, position *Coordinates) error
	Cancel(ctx context.Context, reservationID string) error
	ListUpcoming(ctx context.Context, userID string) ([]UpcomingDay, error)
	ExpireOverdueForUser(ctx context.Context, userID string) (int, error)
	ExpireAllOverdue(ctx context.Context) (int, error)
	RebuildUserIndex(ctx context.Context, userID string) error
	RemoveTemplateSlot(ctx context.Context, deskID, isoDate, slot string) (interface{}, error)
	RevertAvailability(ctx context.Context, deskID string, original interface{}) error
}

// BookingWizardService walks a user through the staged desk selection.
type BookingWizardService interface {
	StartSession(ctx context.Context, userID string) (*models.SessionView, error)
	SelectDate(ctx context.Context, sessionID, isoDate string) (*models.SessionView, error)
	ToggleTimeslot(ctx context.Context, sessionID, slot string) (*models.SessionView, error)
	SelectRoom(ctx context.Context, sessionID, roomID string) (*models.SessionView, error)
	SelectDesk(ctx context.Context, sessionID, deskID string) (*models.SessionView, error)
	Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error)
}

var (
	_ ReservationEngine    = (*DefaultReservationEngine)(nil)
	_ BookingWizardService = (*DefaultBookingWizard)(nil)
)
