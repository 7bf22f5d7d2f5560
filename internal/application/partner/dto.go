package partner

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest carries the input for creating a customer.
// An empty Code asks the service to assign the next free CU number.
type CreateCustomerRequest struct {
	Code       string `json:"code" validate:"omitempty,min=1,max=50"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Phone      string `json:"phone" validate:"max=50"`
	Email      string `json:"email" validate:"omitempty,email,max=200"`
	Address    string `json:"address" validate:"max=500"`
	City       string `json:"city" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"max=100"`
	Notes      string `json:"notes"`
}

// UpdateCustomerRequest carries the input for updating a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Email      *string `json:"email" validate:"omitempty,email,max=200"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Country    *string `json:"country" validate:"omitempty,max=100"`
	Notes      *string `json:"notes"`
}

// CustomerListFilter represents filter options for customer lists
type CustomerListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in service responses
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// FromCustomer builds a CustomerResponse from the domain object
func FromCustomer(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		Status:     string(c.Status),
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}

// FromCustomers converts a slice of domain customers
func FromCustomers(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = FromCustomer(&customers[i])
	}
	return responses
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest carries the input for creating a supplier.
// An empty Code asks the service to assign the next free SU number.
type CreateSupplierRequest struct {
	Code          string           `json:"code" validate:"omitempty,min=1,max=50"`
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	ContactName   string           `json:"contact_name" validate:"max=100"`
	Phone         string           `json:"phone" validate:"max=50"`
	Email         string           `json:"email" validate:"omitempty,email,max=200"`
	Website       string           `json:"website" validate:"max=200"`
	Address       string           `json:"address" validate:"max=500"`
	City          string           `json:"city" validate:"max=100"`
	PostalCode    string           `json:"postal_code" validate:"max=20"`
	Country       string           `json:"country" validate:"max=100"`
	PaymentDays   *int             `json:"payment_days" validate:"omitempty,min=0,max=365"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	Notes         string           `json:"notes"`
}

// UpdateSupplierRequest carries the input for updating a supplier.
// Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ContactName   *string          `json:"contact_name" validate:"omitempty,max=100"`
	Phone         *string          `json:"phone" validate:"omitempty,max=50"`
	Email         *string          `json:"email" validate:"omitempty,email,max=200"`
	Website       *string          `json:"website" validate:"omitempty,max=200"`
	Address       *string          `json:"address" validate:"omitempty,max=500"`
	City          *string          `json:"city" validate:"omitempty,max=100"`
	PostalCode    *string          `json:"postal_code" validate:"omitempty,max=20"`
	Country       *string          `json:"country" validate:"omitempty,max=100"`
	PaymentDays   *int             `json:"payment_days" validate:"omitempty,min=0,max=365"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	Notes         *string          `json:"notes"`
}

// SupplierListFilter represents filter options for supplier lists
type SupplierListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// SupplierResponse represents a supplier in service responses
type SupplierResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Status        string          `json:"status"`
	ContactName   string          `json:"contact_name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Website       string          `json:"website"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	PostalCode    string          `json:"postal_code"`
	Country       string          `json:"country"`
	PaymentDays   int             `json:"payment_days"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// FromSupplier builds a SupplierResponse from the domain object
func FromSupplier(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Status:        string(s.Status),
		ContactName:   s.ContactName,
		Phone:         s.Phone,
		Email:         s.Email,
		Website:       s.Website,
		Address:       s.Address,
		City:          s.City,
		PostalCode:    s.PostalCode,
		Country:       s.Country,
		PaymentDays:   s.PaymentDays,
		MinOrderValue: s.MinOrderValue,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

// FromSuppliers converts a slice of domain suppliers
func FromSuppliers(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = FromSupplier(&suppliers[i])
	}
	return responses
}
