package inventory

import (
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType tells whether a stock row tracks a material or a finished product
type ItemType string

const (
	ItemTypeMaterial ItemType = "material"
	ItemTypeProduct  ItemType = "product"
)

// IsValid checks if the type is a valid ItemType
func (t ItemType) IsValid() bool {
	return t == ItemTypeMaterial || t == ItemTypeProduct
}

// StockItem tracks the stock of one material or product at one storage
// location. Quantity is everything physically present; ReservedQuantity
// is the part claimed by confirmed orders and open picking lists.
// The invariants 0 <= ReservedQuantity <= Quantity always hold.
type StockItem struct {
	shared.BaseAggregateRoot
	ItemType         ItemType        `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_item_location,priority:1"`
	ItemID           uuid.UUID       `gorm:"type:text;not null;uniqueIndex:idx_stock_item_location,priority:2"`
	LocationID       uuid.UUID       `gorm:"type:text;not null;uniqueIndex:idx_stock_item_location,priority:3;index"`
	Unit             string          `gorm:"type:varchar(20);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgUnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock row for an item at a location
func NewStockItem(itemType ItemType, itemID, locationID uuid.UUID, unit string) (*StockItem, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be material or product")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemType:          itemType,
		ItemID:            itemID,
		LocationID:        locationID,
		Unit:              unit,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		AvgUnitCost:       decimal.Zero,
	}, nil
}

// Available returns the quantity not claimed by reservations
func (s *StockItem) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// AvailableQuantity returns the available amount with its unit
func (s *StockItem) AvailableQuantity() valueobject.Quantity {
	q, err := valueobject.NewQuantity(s.Available(), s.Unit)
	if err != nil {
		return valueobject.ZeroQuantity(s.Unit)
	}
	return q
}

// TotalValue returns quantity times average unit cost
func (s *StockItem) TotalValue() decimal.Decimal {
	return s.Quantity.Mul(s.AvgUnitCost).Round(4)
}

// Receive increases stock and recomputes the moving weighted average cost:
// newCost = (oldQty*oldCost + qty*unitCost) / (oldQty + qty)
func (s *StockItem) Receive(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	if s.Quantity.IsZero() {
		s.AvgUnitCost = unitCost
	} else {
		totalValue := s.Quantity.Mul(s.AvgUnitCost).Add(quantity.Mul(unitCost))
		totalQuantity := s.Quantity.Add(quantity)
		s.AvgUnitCost = totalValue.Div(totalQuantity).Round(4)
	}

	s.Quantity = s.Quantity.Add(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Reserve claims part of the available stock for an order or picking list
func (s *StockItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.Available()) {
		return shared.ErrInsufficientStock
	}

	s.ReservedQuantity = s.ReservedQuantity.Add(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Release returns a reservation to the available pool
func (s *StockItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.ReservedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than is reserved")
	}

	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Consume removes stock that was previously reserved
func (s *StockItem) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.ReservedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot consume more than is reserved")
	}

	s.Quantity = s.Quantity.Sub(quantity)
	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Deduct removes unreserved stock directly, used by counter sales
// where no reservation step exists
func (s *StockItem) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.Available()) {
		return shared.ErrInsufficientStock
	}

	s.Quantity = s.Quantity.Sub(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Adjust sets the physical quantity after a recount.
// Rejected while reservations are outstanding because the correction
// would silently invalidate them.
func (s *StockItem) Adjust(newQuantity decimal.Decimal) error {
	if newQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if s.ReservedQuantity.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot adjust stock while reservations are outstanding")
	}

	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()

	return nil
}

// IsBelowMinimum reports whether available stock has fallen below the
// given threshold
func (s *StockItem) IsBelowMinimum(minStock decimal.Decimal) bool {
	if minStock.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return s.Available().LessThan(minStock)
}

// IsEmpty returns true when nothing is physically present
func (s *StockItem) IsEmpty() bool {
	return s.Quantity.IsZero()
}
