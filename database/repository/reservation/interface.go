package reservationRepo

import (
	"context"

	"deskhub/models"
)

// ReservationRepository defines data access for reservations. All writes
// are single-row; there is no multi-row transaction here, and callers must
// treat conflict checks as check-then-act with a narrow race window.
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// ListForDesk returns reservations for one desk dated sinceDate or later.
	ListForDesk(ctx context.Context, deskID, sinceDate string) ([]models.Reservation, error)
	// ListForUser returns a user's reservations dated sinceDate or later,
	// optionally excluding Cancelled rows.
	ListForUser(ctx context.Context, userID, sinceDate string, excludeCancelled bool) ([]models.Reservation, error)
	// ListReserved returns every Reserved reservation dated upToDate or
	// earlier, for the expiry sweep.
	ListReserved(ctx context.Context, upToDate string) ([]models.Reservation, error)
	Insert(ctx context.Context, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
