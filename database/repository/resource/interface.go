package resourceRepo

import (
	"context"

	"deskhub/models"
)

// ResourceRepository defines data access for the resource catalog.
type ResourceRepository interface {
	ListResources(ctx context.Context) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error)
	// UpdateAvailability replaces a resource's weekly template. The payload
	// is stored serialized, matching the legacy row shape.
	UpdateAvailability(ctx context.Context, id string, availability models.Availability) error
	// RestoreAvailability writes back a previously captured raw template.
	RestoreAvailability(ctx context.Context, id string, raw interface{}) error
}
