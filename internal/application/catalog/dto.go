package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// Material DTOs
// =============================================================================

// CreateMaterialRequest carries the input for creating a material
type CreateMaterialRequest struct {
	Code                string           `json:"code" validate:"required,min=1,max=50"`
	Name                string           `json:"name" validate:"required,min=1,max=200"`
	Description         string           `json:"description"`
	Type                string           `json:"type" validate:"required,oneof=leather hardware thread supplies"`
	Unit                string           `json:"unit" validate:"required,min=1,max=20"`
	PurchasePrice       *decimal.Decimal `json:"purchase_price"`
	MinStock            *decimal.Decimal `json:"min_stock"`
	PreferredSupplierID *uuid.UUID       `json:"preferred_supplier_id"`

	// Leather attributes, only accepted for type "leather"
	ThicknessMM *decimal.Decimal `json:"thickness_mm"`
	Color       string           `json:"color" validate:"max=50"`
	Finish      string           `json:"finish" validate:"max=50"`
}

// UpdateMaterialRequest carries the input for updating a material.
// Nil fields are left unchanged.
type UpdateMaterialRequest struct {
	Name                *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string          `json:"description"`
	PurchasePrice       *decimal.Decimal `json:"purchase_price"`
	MinStock            *decimal.Decimal `json:"min_stock"`
	PreferredSupplierID *uuid.UUID       `json:"preferred_supplier_id"`
	ThicknessMM         *decimal.Decimal `json:"thickness_mm"`
	Color               *string          `json:"color" validate:"omitempty,max=50"`
	Finish              *string          `json:"finish" validate:"omitempty,max=50"`
}

// MaterialListFilter represents filter options for material lists
type MaterialListFilter struct {
	Search     string `json:"search"`
	Type       string `json:"type" validate:"omitempty,oneof=leather hardware thread supplies"`
	Status     string `json:"status" validate:"omitempty,oneof=active discontinued"`
	SupplierID string `json:"supplier_id" validate:"omitempty,uuid"`
	Color      string `json:"color"`
	Page       int    `json:"page" validate:"omitempty,min=1"`
	PageSize   int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy    string `json:"order_by"`
	OrderDir   string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// MaterialResponse represents a material in service responses
type MaterialResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Code                string           `json:"code"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Type                string           `json:"type"`
	Unit                string           `json:"unit"`
	PurchasePrice       decimal.Decimal  `json:"purchase_price"`
	MinStock            decimal.Decimal  `json:"min_stock"`
	PreferredSupplierID *uuid.UUID       `json:"preferred_supplier_id,omitempty"`
	Status              string           `json:"status"`
	ThicknessMM         *decimal.Decimal `json:"thickness_mm,omitempty"`
	Color               string           `json:"color,omitempty"`
	Finish              string           `json:"finish,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Version             int              `json:"version"`
}

// FromMaterial builds a MaterialResponse from the domain object
func FromMaterial(m *catalog.Material) MaterialResponse {
	return MaterialResponse{
		ID:                  m.ID,
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Type:                string(m.Type),
		Unit:                m.Unit,
		PurchasePrice:       m.PurchasePrice,
		MinStock:            m.MinStock,
		PreferredSupplierID: m.PreferredSupplierID,
		Status:              string(m.Status),
		ThicknessMM:         m.ThicknessMM,
		Color:               m.Color,
		Finish:              m.Finish,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		Version:             m.Version,
	}
}

// FromMaterials converts a slice of domain materials
func FromMaterials(materials []catalog.Material) []MaterialResponse {
	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = FromMaterial(&materials[i])
	}
	return responses
}

// MaterialLowStockEntry is one material whose available stock has
// fallen below its minimum
type MaterialLowStockEntry struct {
	MaterialID          uuid.UUID       `json:"material_id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	Unit                string          `json:"unit"`
	MinStock            decimal.Decimal `json:"min_stock"`
	Available           decimal.Decimal `json:"available"`
	Shortfall           decimal.Decimal `json:"shortfall"`
	PreferredSupplierID *uuid.UUID      `json:"preferred_supplier_id,omitempty"`
}

// =============================================================================
// Product DTOs
// =============================================================================

// CreateProductRequest carries the input for creating a product
type CreateProductRequest struct {
	Code         string           `json:"code" validate:"required,min=1,max=50"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Description  string           `json:"description"`
	SKU          string           `json:"sku" validate:"max=50"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest carries the input for updating a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	SKU          *string          `json:"sku" validate:"omitempty,max=50"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=active discontinued"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in service responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	Margin       decimal.Decimal `json:"margin"`
	MinStock     decimal.Decimal `json:"min_stock"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// FromProduct builds a ProductResponse from the domain object
func FromProduct(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		MaterialCost: p.MaterialCost,
		Margin:       p.Margin(),
		MinStock:     p.MinStock,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// FromProducts converts a slice of domain products
func FromProducts(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = FromProduct(&products[i])
	}
	return responses
}

// ProductLowStockEntry is one product whose available stock has fallen
// below its minimum
type ProductLowStockEntry struct {
	ProductID uuid.UUID       `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Unit      string          `json:"unit"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
