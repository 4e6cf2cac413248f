package models

import "time"

// User is an authenticated account. Reservations is a denormalized list of
// reservation IDs; it is a rebuildable cache over the reservations
// collection, never a source of truth.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Reservations []string  `bson:"reservations,omitempty" json:"reservations,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
