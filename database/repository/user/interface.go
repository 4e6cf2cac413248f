package userRepo

import (
	"context"

	"deskhub/models"
)

// UserRepository defines data access for user accounts and the
// denormalized reservation-id index hanging off them.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// UpdateReservationIndex overwrites the user's cached reservation-id
	// list. The list is derived state; callers rebuild it from the
	// reservations collection rather than patching it incrementally.
	UpdateReservationIndex(ctx context.Context, userID string, reservationIDs []string) error
}
