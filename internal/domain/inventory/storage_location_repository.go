package inventory

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StorageLocationRepository defines the interface for storage location persistence
type StorageLocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StorageLocation, error)

	// FindByCode finds a location by its code
	FindByCode(ctx context.Context, code string) (*StorageLocation, error)

	// FindAll finds all locations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StorageLocation, error)

	// FindActive finds all active locations
	FindActive(ctx context.Context, filter shared.Filter) ([]StorageLocation, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *StorageLocation) error

	// Delete deletes a location
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts locations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a location with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
