package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles finished-product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	stockRepo   inventory.StockItemRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockItemRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code := strings.ToUpper(req.Code)
	exists, err := s.productRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.SKU != "" {
		if err := product.SetSKU(req.SKU); err != nil {
			return nil, err
		}
	}
	if req.SellingPrice != nil {
		if err := product.SetSellingPrice(*req.SellingPrice); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	response := FromProduct(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := FromProduct(product)
	return &response, nil
}

// GetByCode retrieves a product by code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := FromProduct(product)
	return &response, nil
}

// GetBySKU retrieves a product by its stock keeping unit
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	response := FromProduct(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromProducts(products), total, nil
}

// ListActive retrieves all sellable products ordered by code
func (s *ProductService) ListActive(ctx context.Context) ([]ProductResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	return FromProducts(products), nil
}

// Update updates a product's editable fields
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.SKU != nil {
		if err := product.SetSKU(*req.SKU); err != nil {
			return nil, err
		}
	}
	if req.SellingPrice != nil {
		if err := product.SetSellingPrice(*req.SellingPrice); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := FromProduct(product)
	return &response, nil
}

// Discontinue takes a product out of the active catalog
func (s *ProductService) Discontinue(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Discontinue(); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product discontinued", zap.String("code", product.Code))

	response := FromProduct(product)
	return &response, nil
}

// Reactivate puts a discontinued product back into the catalog
func (s *ProductService) Reactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := FromProduct(product)
	return &response, nil
}

// Delete removes a product. Products holding stock cannot be deleted.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	rows, err := s.stockRepo.FindByItem(ctx, inventory.ItemTypeProduct, productID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !row.IsEmpty() {
			return shared.NewDomainError("CANNOT_DELETE", "Product still has stock on hand")
		}
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("code", product.Code))
	return nil
}

// ListLowStock returns the active products whose available stock is
// below their minimum
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductLowStockEntry, error) {
	rows, err := s.stockRepo.FindWithStock(ctx, inventory.ItemTypeProduct)
	if err != nil {
		return nil, err
	}

	available := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for i := range rows {
		available[rows[i].ItemID] = available[rows[i].ItemID].Add(rows[i].Available())
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	var entries []ProductLowStockEntry
	for {
		products, err := s.productRepo.FindActive(ctx, filter)
		if err != nil {
			return nil, err
		}

		for i := range products {
			p := &products[i]
			if p.MinStock.LessThanOrEqual(decimal.Zero) {
				continue
			}
			onHand := available[p.ID]
			if onHand.GreaterThanOrEqual(p.MinStock) {
				continue
			}
			entries = append(entries, ProductLowStockEntry{
				ProductID: p.ID,
				Code:      p.Code,
				Name:      p.Name,
				SKU:       p.SKU,
				Unit:      p.Unit,
				MinStock:  p.MinStock,
				Available: onHand,
				Shortfall: p.MinStock.Sub(onHand),
			})
		}

		if len(products) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return entries, nil
}
