package workshop

import (
	"fmt"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PickingStatus represents the status of a picking list
type PickingStatus string

const (
	PickingStatusOpen      PickingStatus = "OPEN"
	PickingStatusPicked    PickingStatus = "PICKED"
	PickingStatusCancelled PickingStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PickingStatus
func (s PickingStatus) IsValid() bool {
	switch s {
	case PickingStatusOpen, PickingStatusPicked, PickingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PickingStatus
func (s PickingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PickingStatus) CanTransitionTo(target PickingStatus) bool {
	switch s {
	case PickingStatusOpen:
		return target == PickingStatusPicked || target == PickingStatusCancelled
	case PickingStatusPicked, PickingStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PickingListItem represents one material to pull from a location.
// Quantity is reserved at the location when the list is created and
// consumed as picks are recorded.
type PickingListItem struct {
	ID             uuid.UUID       `gorm:"type:text;primaryKey"`
	ListID         uuid.UUID       `gorm:"type:text;not null;index"`
	MaterialID     uuid.UUID       `gorm:"type:text;not null"`
	MaterialName   string          `gorm:"type:varchar(200);not null"`
	MaterialCode   string          `gorm:"type:varchar(50);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	LocationID     uuid.UUID       `gorm:"type:text;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PickedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PickingListItem) TableName() string {
	return "picking_list_items"
}

// NewPickingListItem creates a new picking line
func NewPickingListItem(listID, materialID uuid.UUID, materialName, materialCode, unit string, locationID uuid.UUID, quantity decimal.Decimal) (*PickingListItem, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if materialName == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_NAME", "Material name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &PickingListItem{
		ID:             uuid.New(),
		ListID:         listID,
		MaterialID:     materialID,
		MaterialName:   materialName,
		MaterialCode:   materialCode,
		Unit:           unit,
		LocationID:     locationID,
		Quantity:       quantity,
		PickedQuantity: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AddPickedQuantity records a pick against this line
func (i *PickingListItem) AddPickedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Picked quantity must be positive")
	}

	newPicked := i.PickedQuantity.Add(quantity)
	if newPicked.GreaterThan(i.Quantity) {
		return shared.NewDomainError("OVER_PICK", fmt.Sprintf("Cannot pick more than reserved for %s", i.MaterialCode))
	}

	i.PickedQuantity = newPicked
	i.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns how much is still to pick
func (i *PickingListItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.PickedQuantity)
}

// IsFullyPicked returns true when the whole line has been pulled
func (i *PickingListItem) IsFullyPicked() bool {
	return i.PickedQuantity.GreaterThanOrEqual(i.Quantity)
}

// PickLine is one line of a pick confirmation
type PickLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// PickedLineInfo describes a processed pick for stock posting
type PickedLineInfo struct {
	ItemID       uuid.UUID
	MaterialID   uuid.UUID
	MaterialName string
	MaterialCode string
	Unit         string
	LocationID   uuid.UUID
	Quantity     decimal.Decimal
}

// PickingList represents the materials to pull from storage for one
// project run. Creating the list reserves stock; recording picks
// consumes the reservations; cancelling releases what is left.
type PickingList struct {
	shared.BaseAggregateRoot
	PickNumber   string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProjectID    uuid.UUID         `gorm:"type:text;not null;index"`
	ProjectName  string            `gorm:"type:varchar(200);not null"`
	Items        []PickingListItem `gorm:"foreignKey:ListID;references:ID"`
	Status       PickingStatus     `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Notes        string            `gorm:"type:text"`
	PickedAt     *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PickingList) TableName() string {
	return "picking_lists"
}

// NewPickingList creates a new open picking list for a project
func NewPickingList(pickNumber string, projectID uuid.UUID, projectName string) (*PickingList, error) {
	if pickNumber == "" {
		return nil, shared.NewDomainError("INVALID_PICK_NUMBER", "Pick number cannot be empty")
	}
	if len(pickNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PICK_NUMBER", "Pick number cannot exceed 50 characters")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if projectName == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}

	return &PickingList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PickNumber:        pickNumber,
		ProjectID:         projectID,
		ProjectName:       projectName,
		Items:             make([]PickingListItem, 0),
		Status:            PickingStatusOpen,
	}, nil
}

// AddItem adds a material line to the list
// Only allowed while no picks have been recorded
func (l *PickingList) AddItem(materialID uuid.UUID, materialName, materialCode, unit string, locationID uuid.UUID, quantity decimal.Decimal) (*PickingListItem, error) {
	if l.Status != PickingStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a closed picking list")
	}
	if l.hasPickedAnything() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items once picking has started")
	}

	for _, item := range l.Items {
		if item.MaterialID == materialID && item.LocationID == locationID {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Material is already on the list for this location")
		}
	}

	item, err := NewPickingListItem(l.ID, materialID, materialName, materialCode, unit, locationID, quantity)
	if err != nil {
		return nil, err
	}

	l.Items = append(l.Items, *item)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return item, nil
}

// Pick records pulled quantities against one or more lines.
// The list closes as PICKED once every line is complete.
// Returns the processed lines for stock posting.
func (l *PickingList) Pick(lines []PickLine) ([]PickedLineInfo, error) {
	if l.Status != PickingStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pick from list in %s status", l.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Pick lines cannot be empty")
	}

	picked := make([]PickedLineInfo, 0, len(lines))

	for _, line := range lines {
		var found bool
		for idx := range l.Items {
			if l.Items[idx].ID == line.ItemID {
				if err := l.Items[idx].AddPickedQuantity(line.Quantity); err != nil {
					return nil, err
				}

				picked = append(picked, PickedLineInfo{
					ItemID:       l.Items[idx].ID,
					MaterialID:   l.Items[idx].MaterialID,
					MaterialName: l.Items[idx].MaterialName,
					MaterialCode: l.Items[idx].MaterialCode,
					Unit:         l.Items[idx].Unit,
					LocationID:   l.Items[idx].LocationID,
					Quantity:     line.Quantity,
				})

				found = true
				break
			}
		}

		if !found {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Picking line %s not found", line.ItemID))
		}
	}

	now := time.Now()
	if l.isFullyPicked() {
		l.Status = PickingStatusPicked
		l.PickedAt = &now
	}
	l.UpdatedAt = now
	l.IncrementVersion()

	return picked, nil
}

// Cancel abandons the list. The caller releases the remaining
// reservations in the same transaction.
func (l *PickingList) Cancel(reason string) error {
	if !l.Status.CanTransitionTo(PickingStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel picking list in %s status", l.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	l.Status = PickingStatusCancelled
	l.CancelledAt = &now
	l.CancelReason = reason
	l.UpdatedAt = now
	l.IncrementVersion()

	return nil
}

// SetNotes sets the list notes
func (l *PickingList) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// isFullyPicked returns true when every line is complete
func (l *PickingList) isFullyPicked() bool {
	for _, item := range l.Items {
		if !item.IsFullyPicked() {
			return false
		}
	}
	return true
}

// hasPickedAnything returns true if any quantity has been pulled
func (l *PickingList) hasPickedAnything() bool {
	for _, item := range l.Items {
		if item.PickedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// ItemCount returns the number of lines on the list
func (l *PickingList) ItemCount() int {
	return len(l.Items)
}
