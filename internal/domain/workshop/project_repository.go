package workshop

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectRepository defines the persistence interface for projects
type ProjectRepository interface {
	// FindByID retrieves a project by its ID, including components
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByCode retrieves a project by its code
	FindByCode(ctx context.Context, code string) (*Project, error)

	// FindAll retrieves projects with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Project], error)

	// FindByStatus retrieves all projects in the given status
	FindByStatus(ctx context.Context, status ProjectStatus) ([]*Project, error)

	// FindByProduct retrieves all projects producing a catalog product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*Project, error)

	// FindByOrder retrieves all projects fulfilling a customer order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Project, error)

	// Save persists a project and its components
	Save(ctx context.Context, project *Project) error

	// SaveWithLock persists a project with optimistic concurrency control
	SaveWithLock(ctx context.Context, project *Project, expectedVersion int) error

	// Delete removes a project
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextCode returns the next project code in the PR-YYYY-NNN series
	NextCode(ctx context.Context) (string, error)
}
