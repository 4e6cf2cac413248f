package booking

import (
	"time"

	"deskhub/models"
	"deskhub/utils"

	"go.uber.org/zap"
)

// AvailableTimeslots derives the bookable slots for a resource on a date
// from its weekly template, in stored (chronological) order and compact
// form.
//
// For today, a slot is only offered while a check-in for it could still
// succeed with at least graceMinutes to spare: its check-in deadline
// (start + checkInLateMinutes) must not precede now + graceMinutes. Slots
// on future dates are never time-filtered.
//
// A malformed template is a displayable empty state, not a failure: it is
// logged and an empty list returned.
func AvailableTimeslots(resource *models.Resource, isoDate string, now time.Time, graceMinutes, checkInLateMinutes int) []string {
	if resource == nil || resource.Availability == nil {
		return nil
	}

	availability, err := models.DecodeAvailability(resource.Availability)
	if err != nil {
		utils.GetLogger().Warn("ignoring malformed availability template",
			zap.String("resourceID", resource.ID), zap.Error(err))
		return nil
	}

	date, err := time.ParseInLocation("2006-01-02", isoDate, now.Location())
	if err != nil {
		utils.GetLogger().Warn("ignoring availability lookup for malformed date",
			zap.String("resourceID", resource.ID), zap.String("date", isoDate))
		return nil
	}

	slots := availability[utils.WeekdayKey(date)]
	if len(slots) == 0 {
		return nil
	}

	if isoDate != utils.ToISODate(now) {
		return slots
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	filtered := make([]string, 0, len(slots))
	for _, slot := range slots {
		start, _, err := utils.ParseSlot(slot)
		if err != nil {
			utils.GetLogger().Warn("skipping malformed timeslot",
				zap.String("resourceID", resource.ID), zap.String("slot", slot))
			continue
		}
		if start+checkInLateMinutes >= nowMinutes+graceMinutes {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}
