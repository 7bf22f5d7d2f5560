package inventory

import (
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
)

// LocationKind classifies where stock physically sits in the workshop
type LocationKind string

const (
	LocationKindShelf  LocationKind = "shelf"
	LocationKindDrawer LocationKind = "drawer"
	LocationKindBox    LocationKind = "box"
	LocationKindRoom   LocationKind = "room"
)

// IsValid checks if the kind is a valid LocationKind
func (k LocationKind) IsValid() bool {
	switch k {
	case LocationKindShelf, LocationKindDrawer, LocationKindBox, LocationKindRoom:
		return true
	}
	return false
}

// LocationStatus represents the status of a storage location
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// StorageLocation represents a physical place in the workshop where
// materials and finished products are kept.
type StorageLocation struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Kind        LocationKind   `gorm:"type:varchar(20);not null"`
	Status      LocationStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (StorageLocation) TableName() string {
	return "storage_locations"
}

// NewStorageLocation creates a new storage location
func NewStorageLocation(code, name string, kind LocationKind) (*StorageLocation, error) {
	if err := validateLocationCode(code); err != nil {
		return nil, err
	}
	if err := validateLocationName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Location kind must be shelf, drawer, box, or room")
	}

	return &StorageLocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Kind:              kind,
		Status:            LocationStatusActive,
	}, nil
}

// Update updates the location's name and description
func (l *StorageLocation) Update(name, description string) error {
	if err := validateLocationName(name); err != nil {
		return err
	}

	l.Name = name
	l.Description = description
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Deactivate takes the location out of use.
// The caller must verify the location holds no stock first.
func (l *StorageLocation) Deactivate() error {
	if l.Status == LocationStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Location is already inactive")
	}

	l.Status = LocationStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Activate puts the location back into use
func (l *StorageLocation) Activate() error {
	if l.Status == LocationStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Location is already active")
	}

	l.Status = LocationStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// IsActive returns true if the location is active
func (l *StorageLocation) IsActive() bool {
	return l.Status == LocationStatusActive
}

// Validation functions

func validateLocationCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Location code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateLocationName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}
	return nil
}
