package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer. An empty code is filled from the
// CU number series.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code := strings.ToUpper(req.Code)
	if code == "" {
		next, err := s.customerRepo.NextCode(ctx)
		if err != nil {
			s.logger.Error("Failed to generate customer code", zap.Error(err))
			return nil, err
		}
		code = next
	} else {
		exists, err := s.customerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
		}
	}

	customer, err := partner.NewCustomer(code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.PostalCode != "" || req.Country != "" {
		if err := customer.SetAddress(req.Address, req.City, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code))

	response := FromCustomer(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := FromCustomer(customer)
	return &response, nil
}

// GetByCode retrieves a customer by code
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := FromCustomer(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if err := validate.Struct(filter); err != nil {
		return nil, 0, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.Country != "" {
		domainFilter.Filters["country"] = filter.Country
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromCustomers(customers), total, nil
}

// ListActive retrieves all active customers
func (s *CustomerService) ListActive(ctx context.Context) ([]CustomerResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	customers, err := s.customerRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	return FromCustomers(customers), nil
}

// Update updates a customer's editable fields
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.Email != nil {
		phone := customer.Phone
		email := customer.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.PostalCode != nil || req.Country != nil {
		address := customer.Address
		city := customer.City
		postalCode := customer.PostalCode
		country := customer.Country
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}
		if err := customer.SetAddress(address, city, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	response := FromCustomer(customer)
	return &response, nil
}

// Activate reactivates a deactivated customer
func (s *CustomerService) Activate(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Activate(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer activated", zap.String("code", customer.Code))

	response := FromCustomer(customer)
	return &response, nil
}

// Deactivate deactivates a customer without deleting its history
func (s *CustomerService) Deactivate(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer deactivated", zap.String("code", customer.Code))

	response := FromCustomer(customer)
	return &response, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return err
	}

	s.logger.Info("Customer deleted", zap.String("code", customer.Code))
	return nil
}

// NextCode returns the next free customer code without reserving it
func (s *CustomerService) NextCode(ctx context.Context) (string, error) {
	return s.customerRepo.NextCode(ctx)
}
