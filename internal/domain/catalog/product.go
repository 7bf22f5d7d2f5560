package catalog

import (
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a sellable finished good: wallets, belts, bags,
// and other pieces the workshop produces.
// It is the aggregate root for the product catalog.
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	SKU          string          `gorm:"type:varchar(50);index"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaterialCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cached from the last completed project
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(code, name string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              "pcs",
		SellingPrice:      decimal.Zero,
		MaterialCost:      decimal.Zero,
		MinStock:          decimal.Zero,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the product's name and description
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// SetSKU sets the stock keeping unit / barcode
func (p *Product) SetSKU(sku string) error {
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}

	p.SKU = sku
	p.UpdatedAt = time.Now()

	return nil
}

// SetSellingPrice sets the selling price per unit
func (p *Product) SetSellingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.SellingPrice = price
	p.UpdatedAt = time.Now()

	return nil
}

// UpdateMaterialCost caches the material cost calculated from a
// completed project, used for margin reporting.
func (p *Product) UpdateMaterialCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Material cost cannot be negative")
	}

	p.MaterialCost = cost
	p.UpdatedAt = time.Now()

	return nil
}

// SetMinStock sets the minimum finished stock to keep on hand
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()

	return nil
}

// Margin returns selling price minus cached material cost
func (p *Product) Margin() decimal.Decimal {
	return p.SellingPrice.Sub(p.MaterialCost)
}

// Discontinue marks the product as no longer sold
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()

	return nil
}

// Reactivate puts a discontinued product back on sale
func (p *Product) Reactivate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Validation functions

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
