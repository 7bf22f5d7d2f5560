package trade

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the status of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusDraft           PurchaseStatus = "DRAFT"
	PurchaseStatusOrdered         PurchaseStatus = "ORDERED"
	PurchaseStatusPartialReceived PurchaseStatus = "PARTIAL_RECEIVED"
	PurchaseStatusReceived        PurchaseStatus = "RECEIVED"
	PurchaseStatusCancelled       PurchaseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusDraft, PurchaseStatusOrdered, PurchaseStatusPartialReceived,
		PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusDraft:
		return target == PurchaseStatusOrdered || target == PurchaseStatusCancelled
	case PurchaseStatusOrdered:
		return target == PurchaseStatusPartialReceived || target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusPartialReceived:
		return target == PurchaseStatusPartialReceived || target == PurchaseStatusReceived
	case PurchaseStatusReceived, PurchaseStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseStatus) CanReceive() bool {
	return s == PurchaseStatusOrdered || s == PurchaseStatusPartialReceived
}

// PurchaseItem represents a line item in a purchase order
type PurchaseItem struct {
	ID               uuid.UUID       `gorm:"type:text;primaryKey"`
	PurchaseID       uuid.UUID       `gorm:"type:text;not null;index"`
	MaterialID       uuid.UUID       `gorm:"type:text;not null"`
	MaterialName     string          `gorm:"type:varchar(200);not null"`
	MaterialCode     string          `gorm:"type:varchar(50);not null"`
	Unit             string          `gorm:"type:varchar(20);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitCost
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a new purchase order line
func NewPurchaseItem(purchaseID, materialID uuid.UUID, materialName, materialCode, unit string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseItem, error) {
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
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseItem{
		ID:               uuid.New(),
		PurchaseID:       purchaseID,
		MaterialID:       materialID,
		MaterialName:     materialName,
		MaterialCode:     materialCode,
		Unit:             unit,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost.Amount(),
		Amount:           quantity.Mul(unitCost.Amount()),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateQuantity updates the ordered quantity and recalculates the amount
func (i *PurchaseItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.OrderedQuantity = quantity
	i.Amount = quantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitCost updates the unit cost and recalculates the amount
func (i *PurchaseItem) UpdateUnitCost(unitCost valueobject.Money) error {
	if unitCost.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	i.UnitCost = unitCost.Amount()
	i.Amount = i.OrderedQuantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()

	return nil
}

// AddReceivedQuantity records a partial or full receipt on this line
func (i *PurchaseItem) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	newReceived := i.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(i.OrderedQuantity) {
		return shared.NewDomainError("OVER_RECEIPT", fmt.Sprintf("Cannot receive more than ordered for %s", i.MaterialCode))
	}

	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns how much is still on order
func (i *PurchaseItem) RemainingQuantity() decimal.Decimal {
	return i.OrderedQuantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true when the whole ordered quantity arrived
func (i *PurchaseItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// ReceiveLine is one line of a goods receipt
type ReceiveLine struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // Zero means use the ordered unit cost
}

// ReceivedLineInfo describes a processed receipt line for stock posting
type ReceivedLineInfo struct {
	ItemID       uuid.UUID
	MaterialID   uuid.UUID
	MaterialName string
	MaterialCode string
	Unit         string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
}

// Purchase represents a purchase order sent to a supplier.
// It is the aggregate root managing the procurement lifecycle from
// draft through (partial) goods receipt.
type Purchase struct {
	shared.BaseAggregateRoot
	PurchaseNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID     uuid.UUID            `gorm:"type:text;not null;index"`
	SupplierName   string               `gorm:"type:varchar(200);not null"`
	Items          []PurchaseItem       `gorm:"foreignKey:PurchaseID;references:ID"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Status         PurchaseStatus       `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ExpectedDate   *time.Time           `gorm:"index"`
	Notes          string               `gorm:"type:text"`
	OrderedAt      *time.Time
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new draft purchase order
func NewPurchase(purchaseNumber string, supplierID uuid.UUID, supplierName string) (*Purchase, error) {
	if purchaseNumber == "" {
		return nil, shared.NewDomainError("INVALID_PURCHASE_NUMBER", "Purchase number cannot be empty")
	}
	if len(purchaseNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PURCHASE_NUMBER", "Purchase number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseNumber:    purchaseNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseItem, 0),
		TotalAmount:       decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
		Status:            PurchaseStatusDraft,
	}, nil
}

// AddItem adds a new material line to the purchase
// Only allowed in DRAFT status
func (p *Purchase) AddItem(materialID uuid.UUID, materialName, materialCode, unit string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseItem, error) {
	if p.Status != PurchaseStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft purchase")
	}

	for _, item := range p.Items {
		if item.MaterialID == materialID {
			return nil, shared.NewDomainError("DUPLICATE_MATERIAL", "Material already exists in purchase, update quantity instead")
		}
	}

	// The first line fixes the purchase currency, later lines must match.
	if len(p.Items) == 0 {
		p.Currency = unitCost.Currency()
	} else if unitCost.Currency() != p.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "All purchase lines must use the purchase currency")
	}

	item, err := NewPurchaseItem(p.ID, materialID, materialName, materialCode, unit, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	p.Items = append(p.Items, *item)
	p.recalculateTotal()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the ordered quantity of an existing line
// Only allowed in DRAFT status
func (p *Purchase) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if p.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft purchase")
	}

	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			if err := p.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			p.recalculateTotal()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// UpdateItemCost updates the unit cost of an existing line
// Only allowed in DRAFT status
func (p *Purchase) UpdateItemCost(itemID uuid.UUID, unitCost valueobject.Money) error {
	if p.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft purchase")
	}

	if unitCost.Currency() != p.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "All purchase lines must use the purchase currency")
	}

	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			if err := p.Items[idx].UpdateUnitCost(unitCost); err != nil {
				return err
			}
			p.recalculateTotal()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// RemoveItem removes a line from the purchase
// Only allowed in DRAFT status
func (p *Purchase) RemoveItem(itemID uuid.UUID) error {
	if p.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft purchase")
	}

	for idx, item := range p.Items {
		if item.ID == itemID {
			p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
			p.recalculateTotal()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// SetExpectedDate sets the expected delivery date
func (p *Purchase) SetExpectedDate(expected time.Time) error {
	if p.Status != PurchaseStatusDraft && p.Status != PurchaseStatusOrdered {
		return shared.NewDomainError("INVALID_STATE", "Cannot change expected date after receiving started")
	}

	p.ExpectedDate = &expected
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetNotes sets the purchase notes
func (p *Purchase) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Place sends the order to the supplier, transitioning DRAFT to ORDERED
// Requires at least one item
func (p *Purchase) Place() error {
	if !p.Status.CanTransitionTo(PurchaseStatusOrdered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot place purchase in %s status", p.Status))
	}
	if len(p.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot place purchase without items")
	}

	now := time.Now()
	p.Status = PurchaseStatusOrdered
	p.OrderedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Receive processes a goods receipt for one or more lines.
// Partial receipts keep the purchase in PARTIAL_RECEIVED until every
// line is complete. Returns the processed lines for stock posting.
func (p *Purchase) Receive(lines []ReceiveLine) ([]ReceivedLineInfo, error) {
	if !p.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for purchase in %s status", p.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receive lines cannot be empty")
	}

	received := make([]ReceivedLineInfo, 0, len(lines))

	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Receive quantity for material %s must be positive", line.MaterialID))
		}

		var found bool
		for idx := range p.Items {
			if p.Items[idx].MaterialID == line.MaterialID {
				if err := p.Items[idx].AddReceivedQuantity(line.Quantity); err != nil {
					return nil, err
				}

				unitCost := p.Items[idx].UnitCost
				if !line.UnitCost.IsZero() {
					unitCost = line.UnitCost
				}

				received = append(received, ReceivedLineInfo{
					ItemID:       p.Items[idx].ID,
					MaterialID:   line.MaterialID,
					MaterialName: p.Items[idx].MaterialName,
					MaterialCode: p.Items[idx].MaterialCode,
					Unit:         p.Items[idx].Unit,
					Quantity:     line.Quantity,
					UnitCost:     unitCost,
				})

				found = true
				break
			}
		}

		if !found {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Material %s not found in purchase", line.MaterialID))
		}
	}

	now := time.Now()
	if p.isFullyReceived() {
		p.Status = PurchaseStatusReceived
		p.ReceivedAt = &now
	} else {
		p.Status = PurchaseStatusPartialReceived
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	return received, nil
}

// Cancel cancels the purchase
// Allowed only before any goods have been received
func (p *Purchase) Cancel(reason string) error {
	if !p.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel purchase in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if p.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel purchase after goods have been received")
	}

	now := time.Now()
	p.Status = PurchaseStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// recalculateTotal recalculates the purchase total
func (p *Purchase) recalculateTotal() {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Amount)
	}
	p.TotalAmount = total
}

// isFullyReceived returns true when every line is complete
func (p *Purchase) isFullyReceived() bool {
	for _, item := range p.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return true
}

// hasReceivedAnyGoods returns true if any quantity has been received
func (p *Purchase) hasReceivedAnyGoods() bool {
	for _, item := range p.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// ItemCount returns the number of lines in the purchase
func (p *Purchase) ItemCount() int {
	return len(p.Items)
}
