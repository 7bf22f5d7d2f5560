package trade

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the persistence interface for purchase orders
type PurchaseRepository interface {
	// FindByID retrieves a purchase by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByNumber retrieves a purchase by its purchase number
	FindByNumber(ctx context.Context, purchaseNumber string) (*Purchase, error)

	// FindAll retrieves purchases with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Purchase], error)

	// FindBySupplier retrieves all purchases for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*Purchase, error)

	// FindByStatus retrieves all purchases in the given status
	FindByStatus(ctx context.Context, status PurchaseStatus) ([]*Purchase, error)

	// FindOpen retrieves purchases awaiting full receipt
	FindOpen(ctx context.Context) ([]*Purchase, error)

	// Save persists a purchase and its items
	Save(ctx context.Context, purchase *Purchase) error

	// SaveWithLock persists a purchase with optimistic concurrency control
	SaveWithLock(ctx context.Context, purchase *Purchase, expectedVersion int) error

	// Delete removes a purchase
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextNumber returns the next purchase number in the PU-YYYY-NNNNN series
	NextNumber(ctx context.Context) (string, error)
}
