package partner

import (
	"strings"
	"time"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a supplier of leather, hardware, and other materials.
// It is the aggregate root for supplier-related operations.
type Supplier struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Status        SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName   string          `gorm:"type:varchar(100)"`
	Phone         string          `gorm:"type:varchar(50);index"`
	Email         string          `gorm:"type:varchar(200);index"`
	Website       string          `gorm:"type:varchar(200)"`
	Address       string          `gorm:"type:text"`
	City          string          `gorm:"type:varchar(100)"`
	PostalCode    string          `gorm:"type:varchar(20)"`
	Country       string          `gorm:"type:varchar(100)"`
	PaymentDays   int             `gorm:"not null;default:0"` // Days until payment is due
	MinOrderValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
		MinOrderValue:     decimal.Zero,
	}, nil
}

// Update updates the supplier's name
func (s *Supplier) Update(name string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = name
	s.UpdatedAt = time.Now()

	return nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email, website string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if website != "" && len(website) > 200 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}

	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Website = website
	s.UpdatedAt = time.Now()

	return nil
}

// SetAddress sets the supplier's address information
func (s *Supplier) SetAddress(address, city, postalCode, country string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if country != "" && len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}

	s.Address = address
	s.City = city
	s.PostalCode = postalCode
	s.Country = country
	s.UpdatedAt = time.Now()

	return nil
}

// SetPaymentTerms sets the payment terms granted by the supplier
func (s *Supplier) SetPaymentTerms(paymentDays int, minOrderValue decimal.Decimal) error {
	if paymentDays < 0 || paymentDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_DAYS", "Payment days must be between 0 and 365")
	}
	if minOrderValue.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order value cannot be negative")
	}

	s.PaymentDays = paymentDays
	s.MinOrderValue = minOrderValue
	s.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the supplier's notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// Activate activates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}

	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()

	return nil
}

// Deactivate deactivates the supplier
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}

	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// HasPaymentTerms returns true if the supplier grants payment terms
func (s *Supplier) HasPaymentTerms() bool {
	return s.PaymentDays > 0
}

// Validation functions

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Supplier code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
