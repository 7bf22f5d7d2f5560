package workshop

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/workshop"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest carries the input for creating a project
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description"`
	ProductID   *uuid.UUID `json:"product_id"`
	OrderID     *uuid.UUID `json:"order_id"`
	Notes       string     `json:"notes"`
}

// UpdateProjectRequest carries partial updates for a project
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// ComponentRequest carries one material component of a project.
// A zero UnitCost asks the service to use the current average stock
// cost, falling back to the catalog purchase price.
type ComponentRequest struct {
	MaterialID uuid.UUID       `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Note       string          `json:"note" validate:"max=500"`
}

// SetLaborRequest sets the labor estimate of a project
type SetLaborRequest struct {
	Hours decimal.Decimal `json:"hours" validate:"required"`
	Rate  decimal.Decimal `json:"rate" validate:"required"`
}

// ProjectListFilter represents filter options for project lists
type ProjectListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=PLANNING IN_PROGRESS COMPLETED CANCELLED"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ComponentResponse represents one project component
type ComponentResponse struct {
	ID           uuid.UUID       `json:"id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	MaterialCode string          `json:"material_code"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
	Note         string          `json:"note,omitempty"`
}

// ProjectResponse represents a workshop project in service responses
type ProjectResponse struct {
	ID           uuid.UUID           `json:"id"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	ProductID    *uuid.UUID          `json:"product_id,omitempty"`
	OrderID      *uuid.UUID          `json:"order_id,omitempty"`
	Components   []ComponentResponse `json:"components"`
	LaborHours   decimal.Decimal     `json:"labor_hours"`
	LaborRate    decimal.Decimal     `json:"labor_rate"`
	MaterialCost decimal.Decimal     `json:"material_cost"`
	LaborCost    decimal.Decimal     `json:"labor_cost"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Status       string              `json:"status"`
	Notes        string              `json:"notes,omitempty"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// FromProject builds a ProjectResponse from the domain object
func FromProject(p *workshop.Project) ProjectResponse {
	components := make([]ComponentResponse, len(p.Components))
	for i, c := range p.Components {
		components[i] = ComponentResponse{
			ID:           c.ID,
			MaterialID:   c.MaterialID,
			MaterialName: c.MaterialName,
			MaterialCode: c.MaterialCode,
			Unit:         c.Unit,
			Quantity:     c.Quantity,
			UnitCost:     c.UnitCost,
			Cost:         c.Cost(),
			Note:         c.Note,
		}
	}
	return ProjectResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		ProductID:    p.ProductID,
		OrderID:      p.OrderID,
		Components:   components,
		LaborHours:   p.LaborHours,
		LaborRate:    p.LaborRate,
		MaterialCost: p.MaterialCost(),
		LaborCost:    p.LaborCost(),
		TotalCost:    p.TotalCost(),
		Status:       string(p.Status),
		Notes:        p.Notes,
		StartedAt:    p.StartedAt,
		CompletedAt:  p.CompletedAt,
		CancelledAt:  p.CancelledAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// FromProjects converts a slice of domain projects
func FromProjects(projects []workshop.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = FromProject(&projects[i])
	}
	return responses
}

// =============================================================================
// Tool list DTOs
// =============================================================================

// ToolRequest carries one tool line for a project tool list
type ToolRequest struct {
	ToolName string `json:"tool_name" validate:"required,min=1,max=200"`
	Note     string `json:"note" validate:"max=500"`
}

// ToolItemResponse represents one tool on a tool list
type ToolItemResponse struct {
	ID       uuid.UUID `json:"id"`
	ToolName string    `json:"tool_name"`
	Note     string    `json:"note,omitempty"`
	Prepared bool      `json:"prepared"`
}

// ToolListResponse represents a project's tool list
type ToolListResponse struct {
	ID        uuid.UUID          `json:"id"`
	ProjectID uuid.UUID          `json:"project_id"`
	Items     []ToolItemResponse `json:"items"`
	Notes     string             `json:"notes,omitempty"`
	Ready     bool               `json:"ready"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FromToolList builds a ToolListResponse from the domain object
func FromToolList(l *workshop.ToolList) ToolListResponse {
	items := make([]ToolItemResponse, len(l.Items))
	for i, item := range l.Items {
		items[i] = ToolItemResponse{
			ID:       item.ID,
			ToolName: item.ToolName,
			Note:     item.Note,
			Prepared: item.Prepared,
		}
	}
	return ToolListResponse{
		ID:        l.ID,
		ProjectID: l.ProjectID,
		Items:     items,
		Notes:     l.Notes,
		Ready:     l.IsReady(),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// =============================================================================
// Picking list DTOs
// =============================================================================

// PickLineRequest reports one executed pick against a picking list line
type PickLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// PickingItemResponse represents one line of a picking list
type PickingItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	MaterialID     uuid.UUID       `json:"material_id"`
	MaterialName   string          `json:"material_name"`
	MaterialCode   string          `json:"material_code"`
	Unit           string          `json:"unit"`
	LocationID     uuid.UUID       `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	PickedQuantity decimal.Decimal `json:"picked_quantity"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// PickingListResponse represents a picking list in service responses
type PickingListResponse struct {
	ID           uuid.UUID             `json:"id"`
	PickNumber   string                `json:"pick_number"`
	ProjectID    uuid.UUID             `json:"project_id"`
	ProjectName  string                `json:"project_name"`
	Items        []PickingItemResponse `json:"items"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	PickedAt     *time.Time            `json:"picked_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	Version      int                   `json:"version"`
}

// FromPickingList builds a PickingListResponse from the domain object
func FromPickingList(l *workshop.PickingList) PickingListResponse {
	items := make([]PickingItemResponse, len(l.Items))
	for i := range l.Items {
		item := &l.Items[i]
		items[i] = PickingItemResponse{
			ID:             item.ID,
			MaterialID:     item.MaterialID,
			MaterialName:   item.MaterialName,
			MaterialCode:   item.MaterialCode,
			Unit:           item.Unit,
			LocationID:     item.LocationID,
			Quantity:       item.Quantity,
			PickedQuantity: item.PickedQuantity,
			Remaining:      item.RemainingQuantity(),
		}
	}
	return PickingListResponse{
		ID:           l.ID,
		PickNumber:   l.PickNumber,
		ProjectID:    l.ProjectID,
		ProjectName:  l.ProjectName,
		Items:        items,
		Status:       string(l.Status),
		Notes:        l.Notes,
		PickedAt:     l.PickedAt,
		CancelledAt:  l.CancelledAt,
		CancelReason: l.CancelReason,
		CreatedAt:    l.CreatedAt,
		Version:      l.Version,
	}
}
