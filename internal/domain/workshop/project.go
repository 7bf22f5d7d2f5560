package workshop

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the status of a workshop project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanning:
		return target == ProjectStatusInProgress || target == ProjectStatusCancelled
	case ProjectStatusInProgress:
		return target == ProjectStatusCompleted || target == ProjectStatusCancelled
	case ProjectStatusCompleted, ProjectStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ProjectComponent represents one material requirement of a project.
// The quantity is what one run of the project consumes; UnitCost is a
// snapshot of the material cost when the component was added.
type ProjectComponent struct {
	ID           uuid.UUID       `gorm:"type:text;primaryKey"`
	ProjectID    uuid.UUID       `gorm:"type:text;not null;index"`
	MaterialID   uuid.UUID       `gorm:"type:text;not null"`
	MaterialName string          `gorm:"type:varchar(200);not null"`
	MaterialCode string          `gorm:"type:varchar(50);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note         string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProjectComponent) TableName() string {
	return "project_components"
}

// NewProjectComponent creates a new material requirement line
func NewProjectComponent(projectID, materialID uuid.UUID, materialName, materialCode, unit string, quantity, unitCost decimal.Decimal) (*ProjectComponent, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if materialName == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_NAME", "Material name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &ProjectComponent{
		ID:           uuid.New(),
		ProjectID:    projectID,
		MaterialID:   materialID,
		MaterialName: materialName,
		MaterialCode: materialCode,
		Unit:         unit,
		Quantity:     quantity,
		UnitCost:     unitCost,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateQuantity updates the required quantity
func (c *ProjectComponent) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.Quantity = quantity
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitCost refreshes the cost snapshot
func (c *ProjectComponent) UpdateUnitCost(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	c.UnitCost = unitCost
	c.UpdatedAt = time.Now()

	return nil
}

// SetNote sets a free-form note on the component
func (c *ProjectComponent) SetNote(note string) {
	c.Note = note
	c.UpdatedAt = time.Now()
}

// Cost returns Quantity * UnitCost for this component
func (c *ProjectComponent) Cost() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}

// Project represents a workshop project: the pattern, bill of materials
// and labor for one piece. A project can be linked to a catalog product
// (the thing it produces) and to a customer order (the reason it runs).
type Project struct {
	shared.BaseAggregateRoot
	Code        string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	ProductID   *uuid.UUID         `gorm:"type:text;index"` // Catalog product this project produces
	OrderID     *uuid.UUID         `gorm:"type:text;index"` // Customer order this project fulfils
	Components  []ProjectComponent `gorm:"foreignKey:ProjectID;references:ID"`
	LaborHours  decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	LaborRate   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"` // Cost per hour
	Status      ProjectStatus      `gorm:"type:varchar(20);not null;default:'PLANNING'"`
	Notes       string             `gorm:"type:text"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project in planning
func NewProject(code, name string) (*Project, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Components:        make([]ProjectComponent, 0),
		LaborHours:        decimal.Zero,
		LaborRate:         decimal.Zero,
		Status:            ProjectStatusPlanning,
	}, nil
}

// Update updates the project name and description
func (p *Project) Update(name, description string) error {
	if p.Status == ProjectStatusCompleted || p.Status == ProjectStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a finished project")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// LinkProduct links the project to the catalog product it produces
func (p *Project) LinkProduct(productID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	p.ProductID = &productID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// LinkOrder links the project to the customer order it fulfils
func (p *Project) LinkOrder(orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	p.OrderID = &orderID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AddComponent adds a material requirement, merging quantities when the
// material is already listed
// Only allowed in PLANNING status
func (p *Project) AddComponent(materialID uuid.UUID, materialName, materialCode, unit string, quantity, unitCost decimal.Decimal) (*ProjectComponent, error) {
	if p.Status != ProjectStatusPlanning {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot change the bill of materials once work has started")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range p.Components {
		if p.Components[idx].MaterialID == materialID {
			p.Components[idx].Quantity = p.Components[idx].Quantity.Add(quantity)
			p.Components[idx].UpdatedAt = time.Now()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return &p.Components[idx], nil
		}
	}

	component, err := NewProjectComponent(p.ID, materialID, materialName, materialCode, unit, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	p.Components = append(p.Components, *component)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return component, nil
}

// UpdateComponentQuantity updates the required quantity of a component
// Only allowed in PLANNING status
func (p *Project) UpdateComponentQuantity(componentID uuid.UUID, quantity decimal.Decimal) error {
	if p.Status != ProjectStatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the bill of materials once work has started")
	}

	for idx := range p.Components {
		if p.Components[idx].ID == componentID {
			if err := p.Components[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("COMPONENT_NOT_FOUND", "Project component not found")
}

// RemoveComponent removes a material requirement
// Only allowed in PLANNING status
func (p *Project) RemoveComponent(componentID uuid.UUID) error {
	if p.Status != ProjectStatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the bill of materials once work has started")
	}

	for idx, component := range p.Components {
		if component.ID == componentID {
			p.Components = append(p.Components[:idx], p.Components[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("COMPONENT_NOT_FOUND", "Project component not found")
}

// SetLabor records the estimated labor for the piece
func (p *Project) SetLabor(hours, rate decimal.Decimal) error {
	if p.Status == ProjectStatusCompleted || p.Status == ProjectStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a finished project")
	}
	if hours.IsNegative() {
		return shared.NewDomainError("INVALID_LABOR", "Labor hours cannot be negative")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_LABOR", "Labor rate cannot be negative")
	}

	p.LaborHours = hours
	p.LaborRate = rate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetNotes sets the project notes
func (p *Project) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Start moves the project onto the bench
// Requires at least one component
func (p *Project) Start() error {
	if !p.Status.CanTransitionTo(ProjectStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start project in %s status", p.Status))
	}
	if len(p.Components) == 0 {
		return shared.NewDomainError("NO_COMPONENTS", "Cannot start a project without components")
	}

	now := time.Now()
	p.Status = ProjectStatusInProgress
	p.StartedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Complete marks the project as finished.
// The caller refreshes the linked product's material cost from this
// project in the same transaction.
func (p *Project) Complete() error {
	if !p.Status.CanTransitionTo(ProjectStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete project in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProjectStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Cancel abandons the project
func (p *Project) Cancel() error {
	if !p.Status.CanTransitionTo(ProjectStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel project in %s status", p.Status))
	}

	now := time.Now()
	p.Status = ProjectStatusCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// MaterialCost returns the total cost of all components
func (p *Project) MaterialCost() decimal.Decimal {
	total := decimal.Zero
	for _, component := range p.Components {
		total = total.Add(component.Cost())
	}
	return total
}

// LaborCost returns LaborHours * LaborRate
func (p *Project) LaborCost() decimal.Decimal {
	return p.LaborHours.Mul(p.LaborRate)
}

// TotalCost returns material cost plus labor cost
func (p *Project) TotalCost() decimal.Decimal {
	return p.MaterialCost().Add(p.LaborCost())
}

// ComponentCount returns the number of components
func (p *Project) ComponentCount() int {
	return len(p.Components)
}
