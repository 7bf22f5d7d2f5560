package inventory

import (
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementTypeReceipt     MovementType = "receipt"     // Purchase receipt or opening stock
	MovementTypeSale        MovementType = "sale"        // Counter sale
	MovementTypeConsumption MovementType = "consumption" // Materials picked for a project
	MovementTypeAdjustment  MovementType = "adjustment"  // Inventory recount correction
	MovementTypeTransfer    MovementType = "transfer"    // Between storage locations
	MovementTypeVoid        MovementType = "void"        // Reversal of a voided sale
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeSale, MovementTypeConsumption,
		MovementTypeAdjustment, MovementTypeTransfer, MovementTypeVoid:
		return true
	}
	return false
}

// StockMovement is one immutable row in the stock journal. Every change
// to a StockItem writes exactly one movement in the same transaction;
// the journal is the audit trail reports aggregate over.
type StockMovement struct {
	shared.BaseEntity
	Type       MovementType    `gorm:"type:varchar(20);not null;index"`
	ItemType   ItemType        `gorm:"type:varchar(20);not null;index:idx_movement_item"`
	ItemID     uuid.UUID       `gorm:"type:text;not null;index:idx_movement_item"`
	LocationID uuid.UUID       `gorm:"type:text;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: positive in, negative out
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reference  string          `gorm:"type:varchar(50);index"` // Document number of the causing record
	Note       string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a journal row for a stock change
func NewStockMovement(movementType MovementType, itemType ItemType, itemID, locationID uuid.UUID, quantity, unitCost decimal.Decimal, reference, note string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be material or product")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if len(reference) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 50 characters")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		Type:       movementType,
		ItemType:   itemType,
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		Reference:  reference,
		Note:       note,
	}, nil
}

// IsInbound returns true when the movement added stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}

// Value returns the signed stock value of the movement
func (m *StockMovement) Value() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost).Round(4)
}
