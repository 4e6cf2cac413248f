package booking

import (
	"deskhub/models"
	"deskhub/utils"
)

// ConflictingReservation returns the first non-Cancelled reservation for
// the given desk and date whose timeslots intersect candidateSlots, or nil.
// The reservations snapshot should be freshly fetched when the result
// gates a write.
func ConflictingReservation(deskID, isoDate string, candidateSlots []string, reservations []models.Reservation) *models.Reservation {
	for i := range reservations {
		r := &reservations[i]
		if r.ResourceID != deskID || r.ISODate() != isoDate || !r.Active() {
			continue
		}
		if slotsIntersect(candidateSlots, r.Timeslots) {
			return r
		}
	}
	return nil
}

// UserConflict returns the first non-Cancelled reservation held by the
// user on the given date whose timeslots intersect candidateSlots,
// independent of desk, or nil. A user cannot hold two bookings for the
// same time.
func UserConflict(userID, isoDate string, candidateSlots []string, reservations []models.Reservation) *models.Reservation {
	for i := range reservations {
		r := &reservations[i]
		if r.UserID != userID || r.ISODate() != isoDate || !r.Active() {
			continue
		}
		if slotsIntersect(candidateSlots, r.Timeslots) {
			return r
		}
	}
	return nil
}

// slotsIntersect reports whether two timeslot sets share a slot. Slot
// strings are normalized to compact form before comparison, so a display
// form from one snapshot still matches the stored form from another.
func slotsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, slot := range a {
		seen[utils.UnformatSlot(slot)] = struct{}{}
	}
	for _, slot := range b {
		if _, ok := seen[utils.UnformatSlot(slot)]; ok {
			return true
		}
	}
	return false
}
