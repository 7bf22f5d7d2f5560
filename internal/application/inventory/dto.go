package inventory

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// Storage Location DTOs
// =============================================================================

// CreateLocationRequest carries the input for creating a storage location
type CreateLocationRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Kind        string `json:"kind" validate:"required,oneof=shelf drawer box room"`
}

// UpdateLocationRequest carries the input for updating a storage location.
// Nil fields are left unchanged.
type UpdateLocationRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// LocationListFilter represents filter options for location lists
type LocationListFilter struct {
	Search   string `json:"search"`
	Kind     string `json:"kind" validate:"omitempty,oneof=shelf drawer box room"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// LocationResponse represents a storage location in service responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// FromLocation builds a LocationResponse from the domain object
func FromLocation(l *inventory.StorageLocation) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		Code:        l.Code,
		Name:        l.Name,
		Description: l.Description,
		Kind:        string(l.Kind),
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Version:     l.Version,
	}
}

// FromLocations converts a slice of domain locations
func FromLocations(locations []inventory.StorageLocation) []LocationResponse {
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = FromLocation(&locations[i])
	}
	return responses
}

// =============================================================================
// Stock DTOs
// =============================================================================

// StockItemResponse represents one stock row in service responses
type StockItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemType         string          `json:"item_type"`
	ItemID           uuid.UUID       `json:"item_id"`
	LocationID       uuid.UUID       `json:"location_id"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"`
	AvgUnitCost      decimal.Decimal `json:"avg_unit_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// FromStockItem builds a StockItemResponse from the domain object
func FromStockItem(s *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:               s.ID,
		ItemType:         string(s.ItemType),
		ItemID:           s.ItemID,
		LocationID:       s.LocationID,
		Unit:             s.Unit,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		Available:        s.Available(),
		AvgUnitCost:      s.AvgUnitCost,
		TotalValue:       s.TotalValue(),
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// FromStockItems converts a slice of stock rows
func FromStockItems(items []inventory.StockItem) []StockItemResponse {
	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = FromStockItem(&items[i])
	}
	return responses
}

// ReceiveStockRequest records stock arriving outside the purchase flow,
// such as opening balances or found stock.
type ReceiveStockRequest struct {
	ItemType   string          `json:"item_type" validate:"required,oneof=material product"`
	ItemID     uuid.UUID       `json:"item_id" validate:"required"`
	LocationID uuid.UUID       `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Note       string          `json:"note" validate:"max=500"`
}

// TransferRequest moves stock between two locations
type TransferRequest struct {
	ItemType       string          `json:"item_type" validate:"required,oneof=material product"`
	ItemID         uuid.UUID       `json:"item_id" validate:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" validate:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	Note           string          `json:"note" validate:"max=500"`
}

// AdjustStockRequest corrects a stock row to a recounted quantity
type AdjustStockRequest struct {
	ItemType    string          `json:"item_type" validate:"required,oneof=material product"`
	ItemID      uuid.UUID       `json:"item_id" validate:"required"`
	LocationID  uuid.UUID       `json:"location_id" validate:"required"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason" validate:"required,min=1,max=500"`
}

// =============================================================================
// Movement DTOs
// =============================================================================

// MovementListFilter represents filter options for the stock journal
type MovementListFilter struct {
	Type       string     `json:"type" validate:"omitempty,oneof=receipt sale consumption adjustment transfer void"`
	ItemType   string     `json:"item_type" validate:"omitempty,oneof=material product"`
	ItemID     string     `json:"item_id" validate:"omitempty,uuid"`
	LocationID string     `json:"location_id" validate:"omitempty,uuid"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy    string     `json:"order_by"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// MovementResponse represents one stock journal row
type MovementResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	ItemType   string          `json:"item_type"`
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Value      decimal.Decimal `json:"value"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// FromMovement builds a MovementResponse from the domain object
func FromMovement(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		Type:       string(m.Type),
		ItemType:   string(m.ItemType),
		ItemID:     m.ItemID,
		LocationID: m.LocationID,
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		Value:      m.Value(),
		Reference:  m.Reference,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// FromMovements converts a slice of journal rows
func FromMovements(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = FromMovement(&movements[i])
	}
	return responses
}
