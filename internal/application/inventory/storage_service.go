package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StorageService handles storage locations, stock levels, and the stock
// journal. Stock mutations run inside a transaction scope so the row
// update and its journal movement commit together.
type StorageService struct {
	locationRepo inventory.StorageLocationRepository
	stockRepo    inventory.StockItemRepository
	movementRepo inventory.StockMovementRepository
	materialRepo catalog.MaterialRepository
	productRepo  catalog.ProductRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewStorageService creates a new StorageService
func NewStorageService(
	locationRepo inventory.StorageLocationRepository,
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	materialRepo catalog.MaterialRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StorageService {
	return &StorageService{
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		materialRepo: materialRepo,
		productRepo:  productRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// =============================================================================
// Storage locations
// =============================================================================

// CreateLocation creates a new storage location
func (s *StorageService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	code := strings.ToUpper(req.Code)
	exists, err := s.locationRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Location with this code already exists")
	}

	location, err := inventory.NewStorageLocation(code, req.Name, inventory.LocationKind(req.Kind))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := location.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		s.logger.Error("Failed to save storage location", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Storage location created",
		zap.String("location_id", location.ID.String()),
		zap.String("code", location.Code))

	response := FromLocation(location)
	return &response, nil
}

// GetLocation retrieves a location by ID
func (s *StorageService) GetLocation(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	response := FromLocation(location)
	return &response, nil
}

// GetLocationByCode retrieves a location by code
func (s *StorageService) GetLocationByCode(ctx context.Context, code string) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	response := FromLocation(location)
	return &response, nil
}

// ListLocations retrieves locations with filtering and pagination
func (s *StorageService) ListLocations(ctx context.Context, filter LocationListFilter) ([]LocationResponse, int64, error) {
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
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	locations, err := s.locationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.locationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromLocations(locations), total, nil
}

// ListActiveLocations retrieves all active locations ordered by code
func (s *StorageService) ListActiveLocations(ctx context.Context) ([]LocationResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	locations, err := s.locationRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	return FromLocations(locations), nil
}

// UpdateLocation updates a location's name and description
func (s *StorageService) UpdateLocation(ctx context.Context, locationID uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	name := location.Name
	description := location.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := location.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := FromLocation(location)
	return &response, nil
}

// ActivateLocation puts a location back into use
func (s *StorageService) ActivateLocation(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if err := location.Activate(); err != nil {
		return nil, err
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := FromLocation(location)
	return &response, nil
}

// DeactivateLocation takes a location out of use. Locations still
// holding stock cannot be deactivated.
func (s *StorageService) DeactivateLocation(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	stocked, err := s.stockRepo.CountByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if stocked > 0 {
		return nil, shared.NewDomainError("LOCATION_NOT_EMPTY", "Location still holds stock")
	}

	if err := location.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	s.logger.Info("Storage location deactivated", zap.String("code", location.Code))

	response := FromLocation(location)
	return &response, nil
}

// DeleteLocation removes a location. Locations still holding stock
// cannot be deleted.
func (s *StorageService) DeleteLocation(ctx context.Context, locationID uuid.UUID) error {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return err
	}

	stocked, err := s.stockRepo.CountByLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if stocked > 0 {
		return shared.NewDomainError("LOCATION_NOT_EMPTY", "Location still holds stock")
	}

	if err := s.locationRepo.Delete(ctx, locationID); err != nil {
		return err
	}

	s.logger.Info("Storage location deleted", zap.String("code", location.Code))
	return nil
}

// =============================================================================
// Stock queries
// =============================================================================

// StockAtLocation lists the stock rows at one location
func (s *StorageService) StockAtLocation(ctx context.Context, locationID uuid.UUID) ([]StockItemResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "item_type"
	filter.OrderDir = "asc"

	rows, err := s.stockRepo.FindByLocation(ctx, locationID, filter)
	if err != nil {
		return nil, err
	}

	return FromStockItems(rows), nil
}

// StockForItem lists an item's stock rows across all locations
func (s *StorageService) StockForItem(ctx context.Context, itemType string, itemID uuid.UUID) ([]StockItemResponse, error) {
	it := inventory.ItemType(itemType)
	if !it.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be material or product")
	}

	rows, err := s.stockRepo.FindByItem(ctx, it, itemID)
	if err != nil {
		return nil, err
	}

	return FromStockItems(rows), nil
}

// =============================================================================
// Stock mutations
// =============================================================================

// ReceiveStock books stock in outside the purchase flow, for opening
// balances and found stock. Purchase deliveries go through the purchase
// receipt instead so they reference their document.
func (s *StorageService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (*StockItemResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	itemType := inventory.ItemType(req.ItemType)
	unit, err := s.resolveItemUnit(ctx, itemType, req.ItemID)
	if err != nil {
		return nil, err
	}

	location, err := s.locationRepo.FindByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if !location.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Location is inactive")
	}

	var row *inventory.StockItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var created bool
		var txErr error
		row, created, txErr = findOrCreateStockRow(ctx, repos.StockItems(), itemType, req.ItemID, req.LocationID, unit)
		if txErr != nil {
			return txErr
		}

		if txErr = row.Receive(req.Quantity, req.UnitCost); txErr != nil {
			return txErr
		}
		if txErr = saveStockRow(ctx, repos.StockItems(), row, created); txErr != nil {
			return txErr
		}

		movement, txErr := inventory.NewStockMovement(
			inventory.MovementTypeReceipt, itemType, req.ItemID, req.LocationID,
			req.Quantity, req.UnitCost, "", req.Note)
		if txErr != nil {
			return txErr
		}
		return repos.StockMovements().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock received",
		zap.String("item_type", req.ItemType),
		zap.String("item_id", req.ItemID.String()),
		zap.String("location_id", req.LocationID.String()),
		zap.String("quantity", req.Quantity.String()))

	response := FromStockItem(row)
	return &response, nil
}

// Transfer moves stock between two locations. The source row is
// deducted and the destination row receives at the source's average
// cost, with a paired out/in entry in the journal.
func (s *StorageService) Transfer(ctx context.Context, req TransferRequest) error {
	if err := validate.Struct(req); err != nil {
		return shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}
	if req.FromLocationID == req.ToLocationID {
		return shared.NewDomainError("INVALID_INPUT", "Source and destination location are the same")
	}
	ctx, log := logger.WithOperation(ctx, s.logger, "transfer-stock")

	itemType := inventory.ItemType(req.ItemType)
	destination, err := s.locationRepo.FindByID(ctx, req.ToLocationID)
	if err != nil {
		return err
	}
	if !destination.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Destination location is inactive")
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, txErr := repos.StockItems().FindByItemAndLocation(ctx, itemType, req.ItemID, req.FromLocationID)
		if txErr != nil {
			if errors.Is(txErr, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
			return txErr
		}

		unitCost := source.AvgUnitCost
		if txErr = source.Deduct(req.Quantity); txErr != nil {
			return txErr
		}
		if txErr = repos.StockItems().SaveWithLock(ctx, source); txErr != nil {
			return txErr
		}

		dest, created, txErr := findOrCreateStockRow(ctx, repos.StockItems(), itemType, req.ItemID, req.ToLocationID, source.Unit)
		if txErr != nil {
			return txErr
		}
		if txErr = dest.Receive(req.Quantity, unitCost); txErr != nil {
			return txErr
		}
		if txErr = saveStockRow(ctx, repos.StockItems(), dest, created); txErr != nil {
			return txErr
		}

		out, txErr := inventory.NewStockMovement(
			inventory.MovementTypeTransfer, itemType, req.ItemID, req.FromLocationID,
			req.Quantity.Neg(), unitCost, "", req.Note)
		if txErr != nil {
			return txErr
		}
		if txErr = repos.StockMovements().Append(ctx, out); txErr != nil {
			return txErr
		}

		in, txErr := inventory.NewStockMovement(
			inventory.MovementTypeTransfer, itemType, req.ItemID, req.ToLocationID,
			req.Quantity, unitCost, "", req.Note)
		if txErr != nil {
			return txErr
		}
		return repos.StockMovements().Append(ctx, in)
	})
	if err != nil {
		return err
	}

	log.Info("Stock transferred",
		zap.String("item_type", req.ItemType),
		zap.String("item_id", req.ItemID.String()),
		zap.String("from_location_id", req.FromLocationID.String()),
		zap.String("to_location_id", req.ToLocationID.String()),
		zap.String("quantity", req.Quantity.String()))

	return nil
}

// Adjust corrects a stock row to a recounted quantity and journals the
// difference. The row must already exist; stock enters the system
// through purchase receipts or ReceiveStock.
func (s *StorageService) Adjust(ctx context.Context, req AdjustStockRequest) (*StockItemResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}
	ctx, log := logger.WithOperation(ctx, s.logger, "adjust-stock")

	itemType := inventory.ItemType(req.ItemType)

	var row *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		row, txErr = repos.StockItems().FindByItemAndLocation(ctx, itemType, req.ItemID, req.LocationID)
		if txErr != nil {
			return txErr
		}

		delta := req.NewQuantity.Sub(row.Quantity)
		if delta.IsZero() {
			return nil
		}

		if txErr = row.Adjust(req.NewQuantity); txErr != nil {
			return txErr
		}
		if txErr = repos.StockItems().SaveWithLock(ctx, row); txErr != nil {
			return txErr
		}

		movement, txErr := inventory.NewStockMovement(
			inventory.MovementTypeAdjustment, itemType, req.ItemID, req.LocationID,
			delta, row.AvgUnitCost, "", req.Reason)
		if txErr != nil {
			return txErr
		}
		return repos.StockMovements().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Stock adjusted",
		zap.String("item_type", req.ItemType),
		zap.String("item_id", req.ItemID.String()),
		zap.String("location_id", req.LocationID.String()),
		zap.String("new_quantity", req.NewQuantity.String()),
		zap.String("reason", req.Reason))

	response := FromStockItem(row)
	return &response, nil
}

// =============================================================================
// Stock journal
// =============================================================================

// Movements queries the stock journal with filtering and pagination
func (s *StorageService) Movements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.ItemType != "" {
		domainFilter.Filters["item_type"] = filter.ItemType
	}
	if filter.ItemID != "" {
		domainFilter.Filters["item_id"] = filter.ItemID
	}
	if filter.LocationID != "" {
		domainFilter.Filters["location_id"] = filter.LocationID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	movements, err := s.movementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return FromMovements(movements), total, nil
}

// ItemHistory lists the most recent journal rows for one item
func (s *StorageService) ItemHistory(ctx context.Context, itemType string, itemID uuid.UUID, limit int) ([]MovementResponse, error) {
	it := inventory.ItemType(itemType)
	if !it.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be material or product")
	}

	filter := shared.DefaultFilter()
	if limit > 0 {
		filter.PageSize = limit
	}

	movements, err := s.movementRepo.FindByItem(ctx, it, itemID, filter)
	if err != nil {
		return nil, err
	}

	return FromMovements(movements), nil
}

// LocationHistory lists the most recent journal rows at one location
func (s *StorageService) LocationHistory(ctx context.Context, locationID uuid.UUID, limit int) ([]MovementResponse, error) {
	filter := shared.DefaultFilter()
	if limit > 0 {
		filter.PageSize = limit
	}

	movements, err := s.movementRepo.FindByLocation(ctx, locationID, filter)
	if err != nil {
		return nil, err
	}

	return FromMovements(movements), nil
}

// resolveItemUnit looks up the unit of the material or product a stock
// row tracks
func (s *StorageService) resolveItemUnit(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID) (string, error) {
	switch itemType {
	case inventory.ItemTypeMaterial:
		material, err := s.materialRepo.FindByID(ctx, itemID)
		if err != nil {
			return "", err
		}
		return material.Unit, nil
	case inventory.ItemTypeProduct:
		product, err := s.productRepo.FindByID(ctx, itemID)
		if err != nil {
			return "", err
		}
		return product.Unit, nil
	default:
		return "", shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be material or product")
	}
}

// findOrCreateStockRow loads the stock row for an item at a location,
// creating an empty one when the item has never been stored there
func findOrCreateStockRow(ctx context.Context, repo inventory.StockItemRepository, itemType inventory.ItemType, itemID, locationID uuid.UUID, unit string) (*inventory.StockItem, bool, error) {
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

// saveStockRow persists a stock row, using the optimistic lock only for
// rows that already existed
func saveStockRow(ctx context.Context, repo inventory.StockItemRepository, row *inventory.StockItem, created bool) error {
	if created {
		return repo.Save(ctx, row)
	}
	return repo.SaveWithLock(ctx, row)
}
