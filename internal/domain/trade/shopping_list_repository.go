package trade

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShoppingListRepository defines the persistence interface for shopping lists
type ShoppingListRepository interface {
	// FindByID retrieves a shopping list by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*ShoppingList, error)

	// FindAll retrieves shopping lists with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[ShoppingList], error)

	// FindOpen retrieves shopping lists that are still open
	FindOpen(ctx context.Context) ([]*ShoppingList, error)

	// Save persists a shopping list and its items
	Save(ctx context.Context, list *ShoppingList) error

	// SaveWithLock persists a shopping list with optimistic concurrency control
	SaveWithLock(ctx context.Context, list *ShoppingList, expectedVersion int) error

	// Delete removes a shopping list
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of shopping lists matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
