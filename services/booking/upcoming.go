package booking

import (
	"context"
	"sort"
	"time"

	"deskhub/models"
	"deskhub/utils"
)

// Display statuses for a reservation relative to the current time.
const (
	DisplayStatusUpcoming = "upcoming"
	DisplayStatusActive   = "active" // inside the check-in window
	DisplayStatusExpired  = "expired"
)

// UpcomingReservation is a reservation joined with its resource name and
// annotated with a derived display status.
type UpcomingReservation struct {
	models.Reservation
	ResourceName  string `json:"resourceName,omitempty"`
	DisplayStatus string `json:"displayStatus"`
}

// UpcomingDay groups a user's reservations on one date.
type UpcomingDay struct {
	Date         string                `json:"date"`
	Reservations []UpcomingReservation `json:"reservations"`
}

// ListUpcoming returns the user's non-cancelled reservations joined with
// resource names, grouped by date in ascending order.
func (e *DefaultReservationEngine) ListUpcoming(ctx context.Context, userID string) ([]UpcomingDay, error) {
	reservations, err := e.Reservations.ListForUser(ctx, userID, "", true)
	if err != nil {
		return nil, NewTransportError("fetching user reservations", err)
	}
	if len(reservations) == 0 {
		return nil, nil
	}

	idSet := make(map[string]struct{})
	var resourceIDs []string
	for _, r := range reservations {
		if _, ok := idSet[r.ResourceID]; !ok {
			idSet[r.ResourceID] = struct{}{}
			resourceIDs = append(resourceIDs, r.ResourceID)
		}
	}
	resources, err := e.Resources.GetByIDs(ctx, resourceIDs)
	if err != nil {
		return nil, NewTransportError("fetching resources", err)
	}
	names := make(map[string]string, len(resources))
	for _, res := range resources {
		names[res.ID] = res.Name
	}

	now := e.Clock.Now()
	grouped := make(map[string][]UpcomingReservation)
	for i := range reservations {
		r := reservations[i]
		grouped[r.ISODate()] = append(grouped[r.ISODate()], UpcomingReservation{
			Reservation:   r,
			ResourceName:  names[r.ResourceID],
			DisplayStatus: e.displayStatus(&r, now),
		})
	}

	days := make([]UpcomingDay, 0, len(grouped))
	for date, rs := range grouped {
		days = append(days, UpcomingDay{Date: date, Reservations: rs})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (e *DefaultReservationEngine) displayStatus(reservation *models.Reservation, now time.Time) string {
	today := utils.ToISODate(now)
	switch {
	case reservation.ISODate() > today:
		return DisplayStatusUpcoming
	case reservation.ISODate() < today:
		return DisplayStatusExpired
	}

	windowStart, windowEnd, err := e.checkInWindow(reservation)
	if err != nil {
		return DisplayStatusExpired
	}
	switch {
	case now.After(windowEnd):
		return DisplayStatusExpired
	case !now.Before(windowStart):
		return DisplayStatusActive
	default:
		return DisplayStatusUpcoming
	}
}
