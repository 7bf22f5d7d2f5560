package workshop

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PickingListRepository defines the persistence interface for picking lists
type PickingListRepository interface {
	// FindByID retrieves a picking list by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*PickingList, error)

	// FindByNumber retrieves a picking list by its pick number
	FindByNumber(ctx context.Context, pickNumber string) (*PickingList, error)

	// FindByProject retrieves all picking lists for a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*PickingList, error)

	// FindAll retrieves picking lists with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[PickingList], error)

	// FindOpen retrieves picking lists that are still open
	FindOpen(ctx context.Context) ([]*PickingList, error)

	// Save persists a picking list and its items
	Save(ctx context.Context, list *PickingList) error

	// SaveWithLock persists a picking list with optimistic concurrency control
	SaveWithLock(ctx context.Context, list *PickingList, expectedVersion int) error

	// Count returns the number of picking lists matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextNumber returns the next pick number in the PK-YYYY-NNNNN series
	NextNumber(ctx context.Context) (string, error)
}
