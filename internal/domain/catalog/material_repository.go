package catalog

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByCode finds a material by its code
	FindByCode(ctx context.Context, code string) (*Material, error)

	// FindAll finds all materials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, error)

	// FindByType finds materials of the given type
	FindByType(ctx context.Context, materialType MaterialType, filter shared.Filter) ([]Material, error)

	// FindActive finds all active materials
	FindActive(ctx context.Context, filter shared.Filter) ([]Material, error)

	// FindByIDs finds multiple materials by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *Material) error

	// SaveWithLock saves a material with optimistic locking (version check)
	SaveWithLock(ctx context.Context, material *Material) error

	// Delete deletes a material
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts materials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a material with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
