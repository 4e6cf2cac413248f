package booking

import (
	"context"
	"fmt"
	"time"

	reservationRepo "deskhub/database/repository/reservation"
	resourceRepo "deskhub/database/repository/resource"
	userRepo "deskhub/database/repository/user"
	"deskhub/models"
	"deskhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cancellation policies. Marking preserves audit history and is the
// default; deletion removes the row outright.
const (
	CancelPolicyMark   = "mark"
	CancelPolicyDelete = "delete"
)

// EngineConfig carries the tunable booking parameters.
type EngineConfig struct {
	AvailabilityGraceMinutes int
	CheckInEarlyMinutes      int
	CheckInLateMinutes       int
	// Building is the reference position for proximity-gated check-in.
	// When nil, check-in skips the distance check entirely.
	Building             *Coordinates
	ProximityThresholdKm float64
	CancelPolicy         string
}

// DefaultReservationEngine drives the reservation lifecycle: create,
// check in, cancel, auto-expire. The backing store offers single-row
// atomicity only, so every conflict check here is check-then-act with a
// narrow race window; the fresh second-pass read before each write is a
// mitigation, not a correctness guarantee.
type DefaultReservationEngine struct {
	Resources    resourceRepo.ResourceRepository
	Reservations reservationRepo.ReservationRepository
	Users        userRepo.UserRepository
	Clock        Clock
	Config       EngineConfig
}

// CreateReservation books a desk for the given user, date and timeslot
// set. The slot set is defensively re-validated and both conflict checks
// are re-run against freshly fetched reservation state immediately before
// the write.
//
// The denormalized user reservation index is rebuilt as a best-effort
// secondary step: if that fails, the reservation itself still exists and
// the returned error is an IndexSyncWarning, not a failure.
func (e *DefaultReservationEngine) CreateReservation(ctx context.Context, deskID, userID, isoDate string, slots []string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	normalized, err := normalizeSlotSet(slots)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q", isoDate))
	}

	desk, err := e.Resources.GetByID(ctx, deskID)
	if err != nil {
		return nil, NewTransportError("fetching desk", err)
	}
	if desk == nil {
		return nil, NewNotFoundError(fmt.Sprintf("resource %s not found", deskID))
	}
	if desk.Type != models.ResourceTypeDesk {
		return nil, NewValidationError("only desks can be reserved")
	}

	// Second-pass conflict checks against current state. Any cached
	// snapshot the caller used to render choices may be stale.
	deskReservations, err := e.Reservations.ListForDesk(ctx, deskID, isoDate)
	if err != nil {
		return nil, NewTransportError("fetching desk reservations", err)
	}
	if blocking := ConflictingReservation(deskID, isoDate, normalized, deskReservations); blocking != nil {
		return nil, NewConflictError("desk is already reserved for one or more of the selected timeslots", blocking)
	}

	userReservations, err := e.Reservations.ListForUser(ctx, userID, isoDate, true)
	if err != nil {
		return nil, NewTransportError("fetching user reservations", err)
	}
	if blocking := UserConflict(userID, isoDate, normalized, userReservations); blocking != nil {
		return nil, NewConflictError("you already hold a reservation overlapping the selected timeslots", blocking)
	}

	reservation := &models.Reservation{
		ID:         uuid.New().String(),
		UserID:     userID,
		ResourceID: deskID,
		Date:       isoDate,
		Timeslots:  normalized,
		Status:     models.ReservationStatusReserved,
		CreatedAt:  e.Clock.Now(),
	}
	if err := e.Reservations.Insert(ctx, reservation); err != nil {
		return nil, NewTransportError("inserting reservation", err)
	}
	logger.Info("reservation created",
		zap.String("reservationID", reservation.ID),
		zap.String("deskID", deskID),
		zap.String("userID", userID),
		zap.String("date", isoDate),
		zap.Strings("timeslots", normalized))

	if err := e.RebuildUserIndex(ctx, userID); err != nil {
		logger.Error("reservation index update failed after create",
			zap.String("userID", userID), zap.Error(err))
		return reservation, NewIndexSyncWarning(userID, err)
	}
	return reservation, nil
}

// CheckIn transitions a Reserved reservation to Completed. It is allowed
// only inside the check-in window around the reservation's first slot
// start, and, when a building position is configured, only within the
// proximity threshold of it.
func (e *DefaultReservationEngine) CheckIn(ctx context.Context, reservationID string, position *Coordinates) error {
	reservation, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return NewTransportError("fetching reservation", err)
	}
	if reservation == nil {
		return NewNotFoundError(fmt.Sprintf("reservation %s not found", reservationID))
	}
	if reservation.Status != models.ReservationStatusReserved {
		return NewInvalidStateError(fmt.Sprintf("reservation is %s and can no longer be checked in", reservation.Status))
	}

	windowStart, windowEnd, err := e.checkInWindow(reservation)
	if err != nil {
		return err
	}
	now := e.Clock.Now()
	if now.Before(windowStart) || now.After(windowEnd) {
		return NewCheckInWindowClosedError(fmt.Sprintf(
			"check-in is only allowed between %s and %s",
			windowStart.Format("15:04"), windowEnd.Format("15:04")))
	}

	if e.Config.Building != nil {
		if position == nil {
			return NewLocationRequiredError()
		}
		distance := HaversineKm(*position, *e.Config.Building)
		if distance > e.Config.ProximityThresholdKm {
			return NewTooFarAwayError(distance, e.Config.ProximityThresholdKm)
		}
	}

	if err := e.Reservations.UpdateStatus(ctx, reservationID, models.ReservationStatusCompleted); err != nil {
		return NewTransportError("updating reservation status", err)
	}
	utils.GetLogger().Info("reservation checked in", zap.String("reservationID", reservationID))
	return nil
}

// Cancel removes a Reserved reservation. Cancelling an already Completed
// or already removed reservation is rejected rather than silently
// succeeding: a silent success would mask a stale double-click on a
// finalized reservation.
func (e *DefaultReservationEngine) Cancel(ctx context.Context, reservationID string) error {
	reservation, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return NewTransportError("fetching reservation", err)
	}
	if reservation == nil {
		return NewNotFoundError(fmt.Sprintf("reservation %s not found", reservationID))
	}
	if reservation.Status != models.ReservationStatusReserved {
		return NewInvalidStateError(fmt.Sprintf("reservation is %s and can no longer be cancelled", reservation.Status))
	}
	return e.remove(ctx, reservation, "cancelled by user")
}

// ExpireOverdueForUser cancels the user's Reserved reservations whose
// check-in window has fully elapsed. Returns the number expired.
func (e *DefaultReservationEngine) ExpireOverdueForUser(ctx context.Context, userID string) (int, error) {
	reservations, err := e.Reservations.ListForUser(ctx, userID, "", true)
	if err != nil {
		return 0, NewTransportError("fetching user reservations", err)
	}
	return e.expireOverdue(ctx, reservations), nil
}

// ExpireAllOverdue sweeps every Reserved reservation dated today or
// earlier and cancels those whose check-in window has elapsed. This is
// the server-side reinforcement of the expiry invariant; clients only
// sweep opportunistically while open.
func (e *DefaultReservationEngine) ExpireAllOverdue(ctx context.Context) (int, error) {
	reservations, err := e.Reservations.ListReserved(ctx, utils.ToISODate(e.Clock.Now()))
	if err != nil {
		return 0, NewTransportError("fetching reserved reservations", err)
	}
	return e.expireOverdue(ctx, reservations), nil
}

func (e *DefaultReservationEngine) expireOverdue(ctx context.Context, reservations []models.Reservation) int {
	logger := utils.GetLogger()
	now := e.Clock.Now()
	expired := 0
	for i := range reservations {
		r := &reservations[i]
		if r.Status != models.ReservationStatusReserved || !e.overdue(r, now) {
			continue
		}
		if err := e.remove(ctx, r, "check-in window elapsed"); err != nil && !IsIndexSyncWarning(err) {
			logger.Error("failed to auto-expire reservation",
				zap.String("reservationID", r.ID), zap.Error(err))
			continue
		}
		expired++
	}
	return expired
}

// overdue reports whether the reservation's check-in window has fully
// elapsed. Malformed reservations are left alone.
func (e *DefaultReservationEngine) overdue(reservation *models.Reservation, now time.Time) bool {
	_, windowEnd, err := e.checkInWindow(reservation)
	if err != nil {
		utils.GetLogger().Warn("skipping expiry check for malformed reservation",
			zap.String("reservationID", reservation.ID), zap.Error(err))
		return false
	}
	return now.After(windowEnd)
}

// remove applies the configured cancellation policy and refreshes the
// user's denormalized index. Index failure is reported as a warning; the
// removal itself stands.
func (e *DefaultReservationEngine) remove(ctx context.Context, reservation *models.Reservation, reason string) error {
	logger := utils.GetLogger()
	if e.Config.CancelPolicy == CancelPolicyDelete {
		if err := e.Reservations.Delete(ctx, reservation.ID); err != nil {
			return NewTransportError("deleting reservation", err)
		}
	} else {
		if err := e.Reservations.UpdateStatus(ctx, reservation.ID, models.ReservationStatusCancelled); err != nil {
			return NewTransportError("cancelling reservation", err)
		}
	}
	logger.Info("reservation removed",
		zap.String("reservationID", reservation.ID),
		zap.String("reason", reason))

	if err := e.RebuildUserIndex(ctx, reservation.UserID); err != nil {
		logger.Error("reservation index update failed after removal",
			zap.String("userID", reservation.UserID), zap.Error(err))
		return NewIndexSyncWarning(reservation.UserID, err)
	}
	return nil
}

// RebuildUserIndex recomputes the user's denormalized reservation-id list
// from the authoritative reservations collection. The list is a derived
// cache; rebuilding beats trusting incremental updates never to drift.
func (e *DefaultReservationEngine) RebuildUserIndex(ctx context.Context, userID string) error {
	reservations, err := e.Reservations.ListForUser(ctx, userID, "", true)
	if err != nil {
		return fmt.Errorf("listing reservations for index rebuild: %w", err)
	}
	ids := make([]string, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.ID)
	}
	return e.Users.UpdateReservationIndex(ctx, userID, ids)
}

// checkInWindow computes [firstSlotStart - early, firstSlotStart + late]
// for a reservation, in the engine clock's location.
func (e *DefaultReservationEngine) checkInWindow(reservation *models.Reservation) (time.Time, time.Time, error) {
	if len(reservation.Timeslots) == 0 {
		return time.Time{}, time.Time{}, NewValidationError("reservation has no timeslots")
	}
	sorted := utils.SortSlots(reservation.Timeslots)
	startMinutes, _, err := utils.ParseSlot(sorted[0])
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError(fmt.Sprintf("reservation has a malformed timeslot: %v", err))
	}
	date, err := time.ParseInLocation("2006-01-02", reservation.ISODate(), e.Clock.Now().Location())
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError(fmt.Sprintf("reservation has a malformed date %q", reservation.Date))
	}
	start := date.Add(time.Duration(startMinutes) * time.Minute)
	windowStart := start.Add(-time.Duration(e.Config.CheckInEarlyMinutes) * time.Minute)
	windowEnd := start.Add(time.Duration(e.Config.CheckInLateMinutes) * time.Minute)
	return windowStart, windowEnd, nil
}

// normalizeSlotSet converts a slot selection to sorted, deduplicated
// compact form and validates the consecutiveness requirement.
func normalizeSlotSet(slots []string) ([]string, error) {
	if len(slots) == 0 {
		return nil, NewValidationError("at least one timeslot is required")
	}
	seen := make(map[string]struct{}, len(slots))
	normalized := make([]string, 0, len(slots))
	for _, slot := range slots {
		compact := utils.UnformatSlot(slot)
		if _, _, err := utils.ParseSlot(compact); err != nil {
			return nil, NewValidationError(err.Error())
		}
		if _, ok := seen[compact]; ok {
			continue
		}
		seen[compact] = struct{}{}
		normalized = append(normalized, compact)
	}
	normalized = utils.SortSlots(normalized)
	if !utils.SlotsAreConsecutive(normalized) {
		return nil, NewValidationError("selected timeslots must be consecutive")
	}
	return normalized, nil
}
