package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SaleService handles counter sales of finished goods. Recording a sale
// deducts product stock and writes the stock journal in the same
// transaction as the sale document.
type SaleService struct {
	saleRepo     trade.SaleRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	locationRepo inventory.StorageLocationRepository
	txScope      TransactionScope
	money        valueobject.MoneyFactory
	logger       *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo trade.SaleRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	locationRepo inventory.StorageLocationRepository,
	txScope TransactionScope,
	money valueobject.MoneyFactory,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		txScope:      txScope,
		money:        money,
		logger:       logger,
	}
}

// RecordSale rings up a complete counter sale. The sale document, the
// stock deduction at the given location and the journal movements all
// commit atomically. Insufficient stock on any line rejects the whole
// sale.
func (s *SaleService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}
	ctx, log := logger.WithOperation(ctx, s.logger, "record-sale")

	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		customerName = customer.Name
	}

	if _, err := s.locationRepo.FindByID(ctx, req.LocationID); err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, line := range req.Items {
		productIDs[i] = line.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	saleNumber, err := s.saleRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := trade.NewSale(saleNumber, req.CustomerID, customerName, trade.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		sale.SetNotes(req.Notes)
	}

	for _, line := range req.Items {
		product, ok := productByID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Product not found: "+line.ProductID.String())
		}
		unitPrice := line.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}
		if _, err := sale.AddItem(product.ID, product.Name, product.Code, line.Quantity, s.money.New(unitPrice)); err != nil {
			return nil, err
		}
	}

	if err := sale.Complete(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range sale.Items {
			stock, err := repos.StockItems().FindByItemAndLocation(ctx, inventory.ItemTypeProduct, item.ProductID, req.LocationID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						"No stock of "+item.ProductCode+" at this location")
				}
				return err
			}

			unitCost := stock.AvgUnitCost
			if err := stock.Deduct(item.Quantity); err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, stock); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(
				inventory.MovementTypeSale, inventory.ItemTypeProduct,
				item.ProductID, req.LocationID,
				item.Quantity.Neg(), unitCost,
				sale.SaleNumber, "")
			if err != nil {
				return err
			}
			if err := repos.StockMovements().Append(ctx, movement); err != nil {
				return err
			}
		}

		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		log.Error("Failed to record sale",
			zap.String("sale_number", sale.SaleNumber),
			zap.Error(err))
		return nil, err
	}

	log.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.String("total", sale.TotalAmount.String()))

	response := FromSale(sale)
	return &response, nil
}

// Void voids a completed sale and returns the sold quantities to stock.
// The reversal books the goods back at the unit cost they left with, so
// the moving average is not distorted by price changes in between.
func (s *SaleService) Void(ctx context.Context, saleID uuid.UUID, reason string) (*SaleResponse, error) {
	ctx, log := logger.WithOperation(ctx, s.logger, "void-sale")

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	expectedVersion := sale.Version

	if err := sale.Void(reason); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.StockMovements().FindByReference(ctx, sale.SaleNumber)
		if err != nil {
			return err
		}

		for i := range movements {
			m := &movements[i]
			if m.Type != inventory.MovementTypeSale {
				continue
			}

			stock, err := repos.StockItems().FindByItemAndLocation(ctx, m.ItemType, m.ItemID, m.LocationID)
			if err != nil {
				return err
			}

			// Sale movements carry negative quantities
			returned := m.Quantity.Neg()
			if err := stock.Receive(returned, m.UnitCost); err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, stock); err != nil {
				return err
			}

			reversal, err := inventory.NewStockMovement(
				inventory.MovementTypeVoid, m.ItemType,
				m.ItemID, m.LocationID,
				returned, m.UnitCost,
				sale.SaleNumber, reason)
			if err != nil {
				return err
			}
			if err := repos.StockMovements().Append(ctx, reversal); err != nil {
				return err
			}
		}

		return repos.Sales().SaveWithLock(ctx, sale, expectedVersion)
	})
	if err != nil {
		log.Error("Failed to void sale",
			zap.String("sale_number", sale.SaleNumber),
			zap.Error(err))
		return nil, err
	}

	log.Info("Sale voided",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("reason", reason))

	response := FromSale(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	response := FromSale(sale)
	return &response, nil
}

// GetByNumber retrieves a sale by its sale number
func (s *SaleService) GetByNumber(ctx context.Context, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}

	response := FromSale(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	if err := validate.Struct(filter); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
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
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	page, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(FromSales(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListByCustomer retrieves all sales for a customer
func (s *SaleService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		responses[i] = FromSale(sale)
	}
	return responses, nil
}

// ListByPeriod retrieves sales with a sale date in [from, to).
// A day's takings is ListByPeriod(midnight, midnight+24h).
func (s *SaleService) ListByPeriod(ctx context.Context, from, to time.Time) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		responses[i] = FromSale(sale)
	}
	return responses, nil
}
