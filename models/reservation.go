package models

import "time"

const (
	ReservationStatusReserved  = "Reserved"
	ReservationStatusCancelled = "Cancelled"
	ReservationStatusCompleted = "Completed"
)

// Reservation represents one booking of a desk for a set of mutually
// consecutive timeslots on a single date.
type Reservation struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	ResourceID string    `bson:"resourceId" json:"resourceId"` // always a Desk, never a Room
	Date       string    `bson:"date" json:"date"`             // "YYYY-MM-DD"; a trailing time component is tolerated and ignored
	Timeslots  []string  `bson:"timeslots" json:"timeslots"`   // compact "HHMM-HHMM" strings
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// ISODate returns the reservation's calendar date key, stripping any time
// component a writer may have attached.
func (r *Reservation) ISODate() string {
	if len(r.Date) >= 10 {
		return r.Date[:10]
	}
	return r.Date
}

// Active reports whether the reservation still blocks its timeslots.
func (r *Reservation) Active() bool {
	return r.Status != ReservationStatusCancelled
}
