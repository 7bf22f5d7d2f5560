package trade

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingListStatus represents the status of a shopping list
type ShoppingListStatus string

const (
	ShoppingListStatusOpen    ShoppingListStatus = "OPEN"
	ShoppingListStatusOrdered ShoppingListStatus = "ORDERED"
	ShoppingListStatusDone    ShoppingListStatus = "DONE"
)

// IsValid checks if the status is a valid ShoppingListStatus
func (s ShoppingListStatus) IsValid() bool {
	switch s {
	case ShoppingListStatusOpen, ShoppingListStatusOrdered, ShoppingListStatusDone:
		return true
	}
	return false
}

// String returns the string representation of ShoppingListStatus
func (s ShoppingListStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShoppingListStatus) CanTransitionTo(target ShoppingListStatus) bool {
	switch s {
	case ShoppingListStatusOpen:
		return target == ShoppingListStatusOrdered || target == ShoppingListStatusDone
	case ShoppingListStatusOrdered:
		return target == ShoppingListStatusDone
	case ShoppingListStatusDone:
		return false // Terminal state
	}
	return false
}

// ShoppingListItem represents a material to buy on a shopping list
type ShoppingListItem struct {
	ID           uuid.UUID       `gorm:"type:text;primaryKey"`
	ListID       uuid.UUID       `gorm:"type:text;not null;index"`
	MaterialID   uuid.UUID       `gorm:"type:text;not null"`
	MaterialName string          `gorm:"type:varchar(200);not null"`
	MaterialCode string          `gorm:"type:varchar(50);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SupplierID   *uuid.UUID      `gorm:"type:text;index"`
	Note         string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShoppingListItem) TableName() string {
	return "shopping_list_items"
}

// NewShoppingListItem creates a new shopping list line
func NewShoppingListItem(listID, materialID uuid.UUID, materialName, materialCode, unit string, quantity decimal.Decimal, supplierID *uuid.UUID) (*ShoppingListItem, error) {
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

	now := time.Now()
	return &ShoppingListItem{
		ID:           uuid.New(),
		ListID:       listID,
		MaterialID:   materialID,
		MaterialName: materialName,
		MaterialCode: materialCode,
		Unit:         unit,
		Quantity:     quantity,
		SupplierID:   supplierID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateQuantity updates the quantity to buy
func (i *ShoppingListItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.UpdatedAt = time.Now()

	return nil
}

// SetNote sets a free-form note on the line
func (i *ShoppingListItem) SetNote(note string) {
	i.Note = note
	i.UpdatedAt = time.Now()
}

// SetSupplier assigns a preferred supplier for this line
func (i *ShoppingListItem) SetSupplier(supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	i.SupplierID = &supplierID
	i.UpdatedAt = time.Now()

	return nil
}

// ClearSupplier removes the supplier assignment from this line
func (i *ShoppingListItem) ClearSupplier() {
	i.SupplierID = nil
	i.UpdatedAt = time.Now()
}

// ShoppingList represents a list of materials to buy.
// Lists are either written by hand or generated from low-stock materials
// and can later be converted into purchase orders grouped by supplier.
type ShoppingList struct {
	shared.BaseAggregateRoot
	Name      string             `gorm:"type:varchar(200);not null"`
	Items     []ShoppingListItem `gorm:"foreignKey:ListID;references:ID"`
	Status    ShoppingListStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Notes     string             `gorm:"type:text"`
	OrderedAt *time.Time
	DoneAt    *time.Time
}

// TableName returns the table name for GORM
func (ShoppingList) TableName() string {
	return "shopping_lists"
}

// NewShoppingList creates a new open shopping list
func NewShoppingList(name string) (*ShoppingList, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Shopping list name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Shopping list name cannot exceed 200 characters")
	}

	return &ShoppingList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Items:             make([]ShoppingListItem, 0),
		Status:            ShoppingListStatusOpen,
	}, nil
}

// Rename changes the list name
func (l *ShoppingList) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Shopping list name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Shopping list name cannot exceed 200 characters")
	}

	l.Name = name
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// AddItem adds a material to the list, merging quantities when the
// material is already present
func (l *ShoppingList) AddItem(materialID uuid.UUID, materialName, materialCode, unit string, quantity decimal.Decimal, supplierID *uuid.UUID) (*ShoppingListItem, error) {
	if l.Status != ShoppingListStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a closed shopping list")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range l.Items {
		if l.Items[idx].MaterialID == materialID {
			l.Items[idx].Quantity = l.Items[idx].Quantity.Add(quantity)
			l.Items[idx].UpdatedAt = time.Now()
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return &l.Items[idx], nil
		}
	}

	item, err := NewShoppingListItem(l.ID, materialID, materialName, materialCode, unit, quantity, supplierID)
	if err != nil {
		return nil, err
	}

	l.Items = append(l.Items, *item)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line
func (l *ShoppingList) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if l.Status != ShoppingListStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a closed shopping list")
	}

	for idx := range l.Items {
		if l.Items[idx].ID == itemID {
			if err := l.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Shopping list item not found")
}

// RemoveItem removes a line from the list
func (l *ShoppingList) RemoveItem(itemID uuid.UUID) error {
	if l.Status != ShoppingListStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a closed shopping list")
	}

	for idx, item := range l.Items {
		if item.ID == itemID {
			l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Shopping list item not found")
}

// SetNotes sets the list notes
func (l *ShoppingList) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// MarkOrdered marks the list as converted into purchase orders
// Requires at least one item
func (l *ShoppingList) MarkOrdered() error {
	if !l.Status.CanTransitionTo(ShoppingListStatusOrdered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark shopping list as ordered in %s status", l.Status))
	}
	if len(l.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot order an empty shopping list")
	}

	now := time.Now()
	l.Status = ShoppingListStatusOrdered
	l.OrderedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	return nil
}

// MarkDone closes the list
func (l *ShoppingList) MarkDone() error {
	if !l.Status.CanTransitionTo(ShoppingListStatusDone) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close shopping list in %s status", l.Status))
	}

	now := time.Now()
	l.Status = ShoppingListStatusDone
	l.DoneAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	return nil
}

// ItemsBySupplier groups the list lines by assigned supplier.
// Lines without a supplier are grouped under uuid.Nil.
func (l *ShoppingList) ItemsBySupplier() map[uuid.UUID][]ShoppingListItem {
	groups := make(map[uuid.UUID][]ShoppingListItem)
	for _, item := range l.Items {
		key := uuid.Nil
		if item.SupplierID != nil {
			key = *item.SupplierID
		}
		groups[key] = append(groups[key], item)
	}
	return groups
}

// ItemCount returns the number of lines on the list
func (l *ShoppingList) ItemCount() int {
	return len(l.Items)
}
