package catalog

import (
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialType classifies purchasable supplies
type MaterialType string

const (
	MaterialTypeLeather  MaterialType = "leather"
	MaterialTypeHardware MaterialType = "hardware" // Buckles, rivets, snaps, zippers
	MaterialTypeThread   MaterialType = "thread"
	MaterialTypeSupplies MaterialType = "supplies" // Dye, glue, edge paint, wax
)

// IsValid checks if the type is a valid MaterialType
func (t MaterialType) IsValid() bool {
	switch t {
	case MaterialTypeLeather, MaterialTypeHardware, MaterialTypeThread, MaterialTypeSupplies:
		return true
	}
	return false
}

// String returns the string representation of MaterialType
func (t MaterialType) String() string {
	return string(t)
}

// MaterialStatus represents the lifecycle status of a material
type MaterialStatus string

const (
	MaterialStatusActive       MaterialStatus = "active"
	MaterialStatusDiscontinued MaterialStatus = "discontinued"
)

// Material represents a purchasable supply used in leatherworking:
// hides and panels, hardware, thread, and consumables.
// It is the aggregate root for the material catalog.
type Material struct {
	shared.BaseAggregateRoot
	Code                string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                string         `gorm:"type:varchar(200);not null"`
	Description         string         `gorm:"type:text"`
	Type                MaterialType   `gorm:"type:varchar(20);not null;index"`
	Unit                string         `gorm:"type:varchar(20);not null"` // e.g. "dm2", "m", "pcs"
	PurchasePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Last agreed price per unit
	MinStock            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Reorder threshold
	PreferredSupplierID *uuid.UUID     `gorm:"type:text;index"`
	Status              MaterialStatus `gorm:"type:varchar(20);not null;default:'active'"`

	// Leather-specific attributes, unset for other material types
	ThicknessMM *decimal.Decimal `gorm:"type:decimal(6,2)"`
	Color       string           `gorm:"type:varchar(50)"`
	Finish      string           `gorm:"type:varchar(50)"` // e.g. "vegetable tanned", "chrome tanned", "pull-up"
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material with required fields
func NewMaterial(code, name string, materialType MaterialType, unit string) (*Material, error) {
	if err := validateMaterialCode(code); err != nil {
		return nil, err
	}
	if err := validateMaterialName(name); err != nil {
		return nil, err
	}
	if !materialType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Material type must be leather, hardware, thread, or supplies")
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Type:              materialType,
		Unit:              unit,
		PurchasePrice:     decimal.Zero,
		MinStock:          decimal.Zero,
		Status:            MaterialStatusActive,
	}, nil
}

// Update updates the material's name and description
func (m *Material) Update(name, description string) error {
	if err := validateMaterialName(name); err != nil {
		return err
	}

	m.Name = name
	m.Description = description
	m.UpdatedAt = time.Now()

	return nil
}

// SetPurchasePrice sets the expected price per unit for purchasing
func (m *Material) SetPurchasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	m.PurchasePrice = price
	m.UpdatedAt = time.Now()

	return nil
}

// SetMinStock sets the reorder threshold
func (m *Material) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	m.MinStock = minStock
	m.UpdatedAt = time.Now()

	return nil
}

// SetPreferredSupplier sets the supplier shopping lists default to
func (m *Material) SetPreferredSupplier(supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	m.PreferredSupplierID = &supplierID
	m.UpdatedAt = time.Now()

	return nil
}

// ClearPreferredSupplier removes the preferred supplier
func (m *Material) ClearPreferredSupplier() {
	m.PreferredSupplierID = nil
	m.UpdatedAt = time.Now()
}

// SetLeatherAttributes sets leather-specific attributes.
// Only allowed for materials of type leather.
func (m *Material) SetLeatherAttributes(thicknessMM decimal.Decimal, color, finish string) error {
	if m.Type != MaterialTypeLeather {
		return shared.NewDomainError("INVALID_TYPE", "Leather attributes can only be set on leather materials")
	}
	if thicknessMM.IsNegative() || thicknessMM.GreaterThan(decimal.NewFromInt(20)) {
		return shared.NewDomainError("INVALID_THICKNESS", "Thickness must be between 0 and 20 mm")
	}
	if len(color) > 50 {
		return shared.NewDomainError("INVALID_COLOR", "Color cannot exceed 50 characters")
	}
	if len(finish) > 50 {
		return shared.NewDomainError("INVALID_FINISH", "Finish cannot exceed 50 characters")
	}

	m.ThicknessMM = &thicknessMM
	m.Color = color
	m.Finish = finish
	m.UpdatedAt = time.Now()

	return nil
}

// Discontinue marks the material as no longer purchased
func (m *Material) Discontinue() error {
	if m.Status == MaterialStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Material is already discontinued")
	}

	m.Status = MaterialStatusDiscontinued
	m.UpdatedAt = time.Now()

	return nil
}

// Reactivate puts a discontinued material back into the active catalog
func (m *Material) Reactivate() error {
	if m.Status == MaterialStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Material is already active")
	}

	m.Status = MaterialStatusActive
	m.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true if the material is active
func (m *Material) IsActive() bool {
	return m.Status == MaterialStatusActive
}

// IsLeather returns true for leather materials
func (m *Material) IsLeather() bool {
	return m.Type == MaterialTypeLeather
}

// Validation functions

func validateMaterialCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Material code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Material code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Material code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateMaterialName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
