package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create creates a new supplier. An empty code is filled from the
// SU number series.
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code := strings.ToUpper(req.Code)
	if code == "" {
		next, err := s.supplierRepo.NextCode(ctx)
		if err != nil {
			s.logger.Error("Failed to generate supplier code", zap.Error(err))
			return nil, err
		}
		code = next
	} else {
		exists, err := s.supplierRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
		}
	}

	supplier, err := partner.NewSupplier(code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" || req.Website != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email, req.Website); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.PostalCode != "" || req.Country != "" {
		if err := supplier.SetAddress(req.Address, req.City, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}
	if req.PaymentDays != nil || req.MinOrderValue != nil {
		days := supplier.PaymentDays
		minOrder := supplier.MinOrderValue
		if req.PaymentDays != nil {
			days = *req.PaymentDays
		}
		if req.MinOrderValue != nil {
			minOrder = *req.MinOrderValue
		}
		if err := supplier.SetPaymentTerms(days, minOrder); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		s.logger.Error("Failed to save supplier", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code))

	response := FromSupplier(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	response := FromSupplier(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := FromSupplier(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
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

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromSuppliers(suppliers), total, nil
}

// ListActive retrieves all active suppliers
func (s *SupplierService) ListActive(ctx context.Context) ([]SupplierResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	suppliers, err := s.supplierRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	return FromSuppliers(suppliers), nil
}

// Update updates a supplier's editable fields
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := supplier.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.Phone != nil || req.Email != nil || req.Website != nil {
		contactName := supplier.ContactName
		phone := supplier.Phone
		email := supplier.Email
		website := supplier.Website
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Website != nil {
			website = *req.Website
		}
		if err := supplier.SetContact(contactName, phone, email, website); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.PostalCode != nil || req.Country != nil {
		address := supplier.Address
		city := supplier.City
		postalCode := supplier.PostalCode
		country := supplier.Country
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
		if err := supplier.SetAddress(address, city, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.PaymentDays != nil || req.MinOrderValue != nil {
		days := supplier.PaymentDays
		minOrder := supplier.MinOrderValue
		if req.PaymentDays != nil {
			days = *req.PaymentDays
		}
		if req.MinOrderValue != nil {
			minOrder = *req.MinOrderValue
		}
		if err := supplier.SetPaymentTerms(days, minOrder); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}

	response := FromSupplier(supplier)
	return &response, nil
}

// Activate reactivates a deactivated supplier
func (s *SupplierService) Activate(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Activate(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier activated", zap.String("code", supplier.Code))

	response := FromSupplier(supplier)
	return &response, nil
}

// Deactivate deactivates a supplier without deleting its history
func (s *SupplierService) Deactivate(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier deactivated", zap.String("code", supplier.Code))

	response := FromSupplier(supplier)
	return &response, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}

	if err := s.supplierRepo.Delete(ctx, supplierID); err != nil {
		return err
	}

	s.logger.Info("Supplier deleted", zap.String("code", supplier.Code))
	return nil
}

// NextCode returns the next free supplier code without reserving it
func (s *SupplierService) NextCode(ctx context.Context) (string, error) {
	return s.supplierRepo.NextCode(ctx)
}
