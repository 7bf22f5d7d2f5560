package trade

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for customer orders
type OrderRepository interface {
	// FindByID retrieves an order by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber retrieves an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll retrieves orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindByCustomer retrieves all orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// FindByStatus retrieves all orders in the given status
	FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)

	// FindOpen retrieves orders that are neither delivered nor cancelled
	FindOpen(ctx context.Context) ([]*Order, error)

	// Save persists an order and its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock persists an order with optimistic concurrency control
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error

	// Delete removes an order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextNumber returns the next order number in the SO-YYYY-NNNNN series
	NextNumber(ctx context.Context) (string, error)
}
