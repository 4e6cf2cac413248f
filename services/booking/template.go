package booking

import (
	"context"
	"fmt"
	"time"

	"deskhub/models"
	"deskhub/utils"

	"go.uber.org/zap"
)

// RemoveTemplateSlot drops one slot from the desk's weekday bucket for the
// weekday the date falls on. It returns the previous raw availability
// payload so the caller can revert if a dependent step fails later.
func (e *DefaultReservationEngine) RemoveTemplateSlot(ctx context.Context, deskID, isoDate, slot string) (interface{}, error) {
	desk, err := e.Resources.GetByID(ctx, deskID)
	if err != nil {
		return nil, NewTransportError("fetching desk", err)
	}
	if desk == nil {
		return nil, NewNotFoundError(fmt.Sprintf("resource %s not found", deskID))
	}

	availability, err := models.DecodeAvailability(desk.Availability)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("desk %s has a malformed availability template: %v", deskID, err))
	}
	date, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q", isoDate))
	}

	weekday := utils.WeekdayKey(date)
	compact := utils.UnformatSlot(slot)
	bucket := availability[weekday]
	updated := make([]string, 0, len(bucket))
	for _, s := range bucket {
		if utils.UnformatSlot(s) != compact {
			updated = append(updated, s)
		}
	}
	availability[weekday] = updated

	if err := e.Resources.UpdateAvailability(ctx, deskID, availability); err != nil {
		return nil, NewTransportError("updating availability", err)
	}
	return desk.Availability, nil
}

// RevertAvailability restores a previously captured availability payload.
// A failed revert leaves the template inconsistent with no automated
// recovery, so it is logged as critical and needs manual action.
func (e *DefaultReservationEngine) RevertAvailability(ctx context.Context, deskID string, original interface{}) error {
	if err := e.Resources.RestoreAvailability(ctx, deskID, original); err != nil {
		utils.GetLogger().Error("CRITICAL: failed to revert availability; check resource availability manually",
			zap.String("resourceID", deskID), zap.Error(err))
		return NewTransportError("reverting availability", err)
	}
	return nil
}
