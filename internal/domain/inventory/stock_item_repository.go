package inventory

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByItemAndLocation finds the stock row for an item at a location
	FindByItemAndLocation(ctx context.Context, itemType ItemType, itemID, locationID uuid.UUID) (*StockItem, error)

	// FindByItem finds all stock rows for an item across locations
	FindByItem(ctx context.Context, itemType ItemType, itemID uuid.UUID) ([]StockItem, error)

	// FindByLocation finds all stock rows at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindAll finds all stock items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindWithStock finds all stock rows holding a positive quantity
	FindWithStock(ctx context.Context, itemType ItemType) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves a stock item with optimistic locking (version check)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// Delete deletes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stock items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByLocation counts stock rows with a positive quantity at a location
	CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error)
}
