package workshop

import (
	"context"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ToolListRepository defines the persistence interface for tool lists
type ToolListRepository interface {
	// FindByID retrieves a tool list by its ID, including items
	FindByID(ctx context.Context, id uuid.UUID) (*ToolList, error)

	// FindByProject retrieves the tool list for a project, if any
	FindByProject(ctx context.Context, projectID uuid.UUID) (*ToolList, error)

	// FindAll retrieves tool lists with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[ToolList], error)

	// Save persists a tool list and its items
	Save(ctx context.Context, list *ToolList) error

	// Delete removes a tool list
	Delete(ctx context.Context, id uuid.UUID) error
}
