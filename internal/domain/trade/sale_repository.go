package trade

import (
	"context"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines the persistence interface for counter sales
type SaleRepository interface {
	// FindByID retrieves a sale by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByNumber retrieves a sale by its sale number
	FindByNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll retrieves sales with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Sale], error)

	// FindByCustomer retrieves all sales for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Sale, error)

	// FindByPeriod retrieves sales with a sale date in [from, to)
	FindByPeriod(ctx context.Context, from, to time.Time) ([]*Sale, error)

	// Save persists a sale and its items
	Save(ctx context.Context, sale *Sale) error

	// SaveWithLock persists a sale with optimistic concurrency control
	SaveWithLock(ctx context.Context, sale *Sale, expectedVersion int) error

	// Count returns the number of sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextNumber returns the next sale number in the SA-YYYY-NNNNN series
	NextNumber(ctx context.Context) (string, error)
}
