package inventory

import (
	"context"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockMovementRepository defines the interface for the stock journal.
// Movements are append-only: there is no update or delete.
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByItem finds movements for an item, newest first
	FindByItem(ctx context.Context, itemType ItemType, itemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByLocation finds movements at a location, newest first
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByReference finds movements caused by a document
	FindByReference(ctx context.Context, reference string) ([]StockMovement, error)

	// FindByPeriod finds movements created in [from, to)
	FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) ([]StockMovement, error)

	// FindAll finds all movements matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// Append writes a new movement row
	Append(ctx context.Context, movement *StockMovement) error

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
