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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService handles purchase orders for materials. Receiving a
// purchase books the goods into stock at the receipt cost and writes
// the stock journal in the same transaction as the purchase update.
type PurchaseService struct {
	purchaseRepo trade.PurchaseRepository
	supplierRepo partner.SupplierRepository
	materialRepo catalog.MaterialRepository
	locationRepo inventory.StorageLocationRepository
	txScope      TransactionScope
	money        valueobject.MoneyFactory
	logger       *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo trade.PurchaseRepository,
	supplierRepo partner.SupplierRepository,
	materialRepo catalog.MaterialRepository,
	locationRepo inventory.StorageLocationRepository,
	txScope TransactionScope,
	money valueobject.MoneyFactory,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		txScope:      txScope,
		money:        money,
		logger:       logger,
	}
}

// Create creates a new draft purchase for a supplier
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	purchaseNumber, err := s.purchaseRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	purchase, err := trade.NewPurchase(purchaseNumber, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	if req.ExpectedDate != nil {
		if err := purchase.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		purchase.SetNotes(req.Notes)
	}

	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		s.logger.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("supplier_id", supplier.ID.String()))

	response := FromPurchase(purchase)
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	response := FromPurchase(purchase)
	return &response, nil
}

// GetByNumber retrieves a purchase by its purchase number
func (s *PurchaseService) GetByNumber(ctx context.Context, purchaseNumber string) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByNumber(ctx, purchaseNumber)
	if err != nil {
		return nil, err
	}

	response := FromPurchase(purchase)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) (*shared.Paginated[PurchaseResponse], error) {
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
	if filter.SupplierID != "" {
		domainFilter.Filters["supplier_id"] = filter.SupplierID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	page, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(FromPurchases(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListBySupplier retrieves all purchases for a supplier
func (s *PurchaseService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		responses[i] = FromPurchase(p)
	}
	return responses, nil
}

// ListOpen retrieves purchases awaiting full receipt
func (s *PurchaseService) ListOpen(ctx context.Context) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		responses[i] = FromPurchase(p)
	}
	return responses, nil
}

// AddItem adds a material line to a draft purchase. A zero unit cost
// defaults to the material's catalog purchase price.
func (s *PurchaseService) AddItem(ctx context.Context, purchaseID uuid.UUID, req PurchaseItemRequest) (*PurchaseResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := purchase.Version

	material, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	unitCost := req.UnitCost
	if unitCost.IsZero() {
		unitCost = material.PurchasePrice
	}

	if _, err := purchase.AddItem(material.ID, material.Name, material.Code, material.Unit, req.Quantity, s.money.New(unitCost)); err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.SaveWithLock(ctx, purchase, expectedVersion); err != nil {
		s.logger.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	response := FromPurchase(purchase)
	return &response, nil
}

// UpdateItemQuantity changes the ordered quantity of a purchase line
func (s *PurchaseService) UpdateItemQuantity(ctx context.Context, purchaseID, itemID uuid.UUID, quantity decimal.Decimal) (*PurchaseResponse, error) {
	return s.mutate(ctx, purchaseID, func(p *trade.Purchase) error {
		return p.UpdateItemQuantity(itemID, quantity)
	})
}

// UpdateItemCost changes the unit cost of a purchase line
func (s *PurchaseService) UpdateItemCost(ctx context.Context, purchaseID, itemID uuid.UUID, unitCost decimal.Decimal) (*PurchaseResponse, error) {
	return s.mutate(ctx, purchaseID, func(p *trade.Purchase) error {
		return p.UpdateItemCost(itemID, s.money.New(unitCost))
	})
}

// RemoveItem removes a line from a draft purchase
func (s *PurchaseService) RemoveItem(ctx context.Context, purchaseID, itemID uuid.UUID) (*PurchaseResponse, error) {
	return s.mutate(ctx, purchaseID, func(p *trade.Purchase) error {
		return p.RemoveItem(itemID)
	})
}

// SetExpectedDate updates the expected delivery date
func (s *PurchaseService) SetExpectedDate(ctx context.Context, purchaseID uuid.UUID, expected time.Time) (*PurchaseResponse, error) {
	return s.mutate(ctx, purchaseID, func(p *trade.Purchase) error {
		return p.SetExpectedDate(expected)
	})
}

// SetNotes updates the free-form notes on a purchase
func (s *PurchaseService) SetNotes(ctx context.Context, purchaseID uuid.UUID, notes string) (*PurchaseResponse, error) {
	return s.mutate(ctx, purchaseID, func(p *trade.Purchase) error {
		p.SetNotes(notes)
		return nil
	})
}

// Place sends a draft purchase to the supplier
func (s *PurchaseService) Place(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := purchase.Version

	if err := purchase.Place(); err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.SaveWithLock(ctx, purchase, expectedVersion); err != nil {
		s.logger.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Purchase placed",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("total", purchase.TotalAmount.String()))

	response := FromPurchase(purchase)
	return &response, nil
}

// Receive books a goods receipt into stock at the given location. Each
// received line raises the stock quantity and moving average cost and
// appends a receipt movement referencing the purchase number. Partial
// receipts leave the purchase in PARTIAL_RECEIVED until all lines are
// complete.
func (s *PurchaseService) Receive(ctx context.Context, purchaseID uuid.UUID, req ReceivePurchaseRequest) (*PurchaseResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}
	ctx, log := logger.WithOperation(ctx, s.logger, "receive-purchase")

	location, err := s.locationRepo.FindByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if !location.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot receive goods into an inactive location")
	}

	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := purchase.Version

	lines := make([]trade.ReceiveLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = trade.ReceiveLine{
			MaterialID: line.MaterialID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
		}
	}

	received, err := purchase.Receive(lines)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range received {
			stock, created, txErr := findOrCreateStock(ctx, repos.StockItems(), inventory.ItemTypeMaterial, line.MaterialID, req.LocationID, line.Unit)
			if txErr != nil {
				return txErr
			}
			if txErr = stock.Receive(line.Quantity, line.UnitCost); txErr != nil {
				return txErr
			}
			if txErr = saveStock(ctx, repos.StockItems(), stock, created); txErr != nil {
				return txErr
			}

			movement, txErr := inventory.NewStockMovement(
				inventory.MovementTypeReceipt, inventory.ItemTypeMaterial,
				line.MaterialID, req.LocationID,
				line.Quantity, line.UnitCost,
				purchase.PurchaseNumber, "")
			if txErr != nil {
				return txErr
			}
			if txErr = repos.StockMovements().Append(ctx, movement); txErr != nil {
				return txErr
			}
		}

		return repos.Purchases().SaveWithLock(ctx, purchase, expectedVersion)
	})
	if err != nil {
		log.Error("Failed to receive purchase",
			zap.String("purchase_number", purchase.PurchaseNumber),
			zap.Error(err))
		return nil, err
	}

	log.Info("Purchase received",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("location", location.Name),
		zap.Int("lines", len(received)),
		zap.String("status", string(purchase.Status)))

	response := FromPurchase(purchase)
	return &response, nil
}

// Cancel cancels a purchase with a reason. Not allowed once goods have
// been received.
func (s *PurchaseService) Cancel(ctx context.Context, purchaseID uuid.UUID, reason string) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := purchase.Version

	if err := purchase.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.SaveWithLock(ctx, purchase, expectedVersion); err != nil {
		s.logger.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Purchase cancelled",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("reason", reason))

	response := FromPurchase(purchase)
	return &response, nil
}

// Delete removes a draft purchase entirely
func (s *PurchaseService) Delete(ctx context.Context, purchaseID uuid.UUID) error {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return err
	}

	if purchase.Status != trade.PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchases can be deleted")
	}

	if err := s.purchaseRepo.Delete(ctx, purchaseID); err != nil {
		s.logger.Error("Failed to delete purchase", zap.Error(err))
		return err
	}

	s.logger.Info("Purchase deleted",
		zap.String("purchase_id", purchaseID.String()),
		zap.String("purchase_number", purchase.PurchaseNumber))

	return nil
}

func (s *PurchaseService) mutate(ctx context.Context, purchaseID uuid.UUID, fn func(*trade.Purchase) error) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	expectedVersion := purchase.Version

	if err := fn(purchase); err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.SaveWithLock(ctx, purchase, expectedVersion); err != nil {
		s.logger.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	response := FromPurchase(purchase)
	return &response, nil
}

// findOrCreateStock loads the stock row for an item at a location,
// creating a fresh empty row when none exists yet
func findOrCreateStock(ctx context.Context, repo inventory.StockItemRepository, itemType inventory.ItemType, itemID, locationID uuid.UUID, unit string) (*inventory.StockItem, bool, error) {
	row, err := repo.FindByItemAndLocation(ctx, itemType, itemID, locationID)
	if err == nil {
		return row, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	row, err = inventory.NewStockItem(itemType, itemID, locationID, unit)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// saveStock persists a stock row, using the optimistic lock only for
// rows that already existed
func saveStock(ctx context.Context, repo inventory.StockItemRepository, row *inventory.StockItem, created bool) error {
	if created {
		return repo.Save(ctx, row)
	}
	return repo.SaveWithLock(ctx, row)
}
