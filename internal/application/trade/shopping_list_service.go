package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShoppingListService handles material shopping lists, from manual
// curation or low-stock generation through conversion into draft
// purchase orders.
type ShoppingListService struct {
	listRepo     trade.ShoppingListRepository
	materialRepo catalog.MaterialRepository
	supplierRepo partner.SupplierRepository
	stockRepo    inventory.StockItemRepository
	txScope      TransactionScope
	money        valueobject.MoneyFactory
	logger       *zap.Logger
}

// NewShoppingListService creates a new ShoppingListService
func NewShoppingListService(
	listRepo trade.ShoppingListRepository,
	materialRepo catalog.MaterialRepository,
	supplierRepo partner.SupplierRepository,
	stockRepo inventory.StockItemRepository,
	txScope TransactionScope,
	money valueobject.MoneyFactory,
	logger *zap.Logger,
) *ShoppingListService {
	return &ShoppingListService{
		listRepo:     listRepo,
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		stockRepo:    stockRepo,
		txScope:      txScope,
		money:        money,
		logger:       logger,
	}
}

// Create creates a new empty shopping list
func (s *ShoppingListService) Create(ctx context.Context, req CreateShoppingListRequest) (*ShoppingListResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	list, err := trade.NewShoppingList(req.Name)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		list.SetNotes(req.Notes)
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		s.logger.Error("Failed to save shopping list", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Shopping list created",
		zap.String("list_id", list.ID.String()),
		zap.String("name", list.Name))

	response := FromShoppingList(list)
	return &response, nil
}

// GenerateFromLowStock creates a shopping list holding the shortfall of
// every active material below its minimum stock, preassigned to the
// material's preferred supplier. Materials without a minimum are
// skipped.
func (s *ShoppingListService) GenerateFromLowStock(ctx context.Context, name string) (*ShoppingListResponse, error) {
	if name == "" {
		name = fmt.Sprintf("Restock %s", time.Now().Format("2006-01-02"))
	}

	available, err := s.availableByMaterial(ctx)
	if err != nil {
		return nil, err
	}

	list, err := trade.NewShoppingList(name)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "code"
	filter.OrderDir = "asc"

	added := 0
	for {
		materials, err := s.materialRepo.FindActive(ctx, filter)
		if err != nil {
			return nil, err
		}

		for i := range materials {
			m := &materials[i]
			if m.MinStock.LessThanOrEqual(decimal.Zero) {
				continue
			}
			onHand := available[m.ID]
			if onHand.GreaterThanOrEqual(m.MinStock) {
				continue
			}
			shortfall := m.MinStock.Sub(onHand)
			if _, err := list.AddItem(m.ID, m.Name, m.Code, m.Unit, shortfall, m.PreferredSupplierID); err != nil {
				return nil, err
			}
			added++
		}

		if len(materials) < filter.PageSize {
			break
		}
		filter.Page++
	}

	if added == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "No materials are below their minimum stock")
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		s.logger.Error("Failed to save shopping list", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Shopping list generated from low stock",
		zap.String("list_id", list.ID.String()),
		zap.String("name", list.Name),
		zap.Int("items", added))

	response := FromShoppingList(list)
	return &response, nil
}

// GetByID retrieves a shopping list by ID
func (s *ShoppingListService) GetByID(ctx context.Context, listID uuid.UUID) (*ShoppingListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	response := FromShoppingList(list)
	return &response, nil
}

// List retrieves shopping lists with filtering and pagination
func (s *ShoppingListService) List(ctx context.Context, filter ShoppingListFilter) (*shared.Paginated[ShoppingListResponse], error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	page, err := s.listRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(FromShoppingLists(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListOpen retrieves shopping lists still being curated
func (s *ShoppingListService) ListOpen(ctx context.Context) ([]ShoppingListResponse, error) {
	lists, err := s.listRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ShoppingListResponse, len(lists))
	for i, l := range lists {
		responses[i] = FromShoppingList(l)
	}
	return responses, nil
}

// Rename changes the name of a shopping list
func (s *ShoppingListService) Rename(ctx context.Context, listID uuid.UUID, name string) (*ShoppingListResponse, error) {
	return s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		return l.Rename(name)
	})
}

// AddItem adds a material line to an open shopping list. Adding a
// material already on the list merges the quantities.
func (s *ShoppingListService) AddItem(ctx context.Context, listID uuid.UUID, req ShoppingListItemRequest) (*ShoppingListResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	material, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}

	supplierID := req.SupplierID
	if supplierID == nil {
		supplierID = material.PreferredSupplierID
	} else if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
		return nil, err
	}

	return s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		item, err := l.AddItem(material.ID, material.Name, material.Code, material.Unit, req.Quantity, supplierID)
		if err != nil {
			return err
		}
		if req.Note != "" {
			item.SetNote(req.Note)
		}
		return nil
	})
}

// UpdateItemQuantity changes the quantity of a shopping list line
func (s *ShoppingListService) UpdateItemQuantity(ctx context.Context, listID, itemID uuid.UUID, quantity decimal.Decimal) (*ShoppingListResponse, error) {
	return s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		return l.UpdateItemQuantity(itemID, quantity)
	})
}

// RemoveItem removes a line from an open shopping list
func (s *ShoppingListService) RemoveItem(ctx context.Context, listID, itemID uuid.UUID) (*ShoppingListResponse, error) {
	return s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		return l.RemoveItem(itemID)
	})
}

// SetNotes updates the free-form notes on a shopping list
func (s *ShoppingListService) SetNotes(ctx context.Context, listID uuid.UUID, notes string) (*ShoppingListResponse, error) {
	return s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		l.SetNotes(notes)
		return nil
	})
}

// MarkDone closes an ordered shopping list
func (s *ShoppingListService) MarkDone(ctx context.Context, listID uuid.UUID) (*ShoppingListResponse, error) {
	response, err := s.mutate(ctx, listID, func(l *trade.ShoppingList) error {
		return l.MarkDone()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shopping list done",
		zap.String("list_id", listID.String()),
		zap.String("name", response.Name))

	return response, nil
}

// Delete removes a shopping list entirely
func (s *ShoppingListService) Delete(ctx context.Context, listID uuid.UUID) error {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return err
	}

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		s.logger.Error("Failed to delete shopping list", zap.Error(err))
		return err
	}

	s.logger.Info("Shopping list deleted",
		zap.String("list_id", listID.String()),
		zap.String("name", list.Name))

	return nil
}

// ConvertToPurchases turns an open shopping list into one draft
// purchase per supplier and marks the list as ordered, all in one
// transaction. Every line must have a supplier assigned; unassigned
// lines reject the conversion.
func (s *ShoppingListService) ConvertToPurchases(ctx context.Context, listID uuid.UUID) ([]PurchaseResponse, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	expectedVersion := list.Version

	if list.Status != trade.ShoppingListStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Only open shopping lists can be converted")
	}
	if len(list.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot convert an empty shopping list")
	}

	bySupplier := list.ItemsBySupplier()
	if items, ok := bySupplier[uuid.Nil]; ok {
		return nil, shared.NewDomainError("MISSING_SUPPLIER",
			fmt.Sprintf("%d item(s) have no supplier assigned", len(items)))
	}

	// Resolve names and default costs outside the transaction
	suppliers := make(map[uuid.UUID]*partner.Supplier, len(bySupplier))
	costs := make(map[uuid.UUID]decimal.Decimal)
	for supplierID, items := range bySupplier {
		supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		suppliers[supplierID] = supplier

		ids := make([]uuid.UUID, len(items))
		for i, item := range items {
			ids[i] = item.MaterialID
		}
		materials, err := s.materialRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range materials {
			costs[materials[i].ID] = materials[i].PurchasePrice
		}
	}

	var purchases []*trade.Purchase
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for supplierID, items := range bySupplier {
			supplier := suppliers[supplierID]

			purchaseNumber, txErr := repos.Purchases().NextNumber(ctx)
			if txErr != nil {
				return txErr
			}
			purchase, txErr := trade.NewPurchase(purchaseNumber, supplier.ID, supplier.Name)
			if txErr != nil {
				return txErr
			}
			purchase.SetNotes("From shopping list: " + list.Name)

			for _, item := range items {
				unitCost := s.money.New(costs[item.MaterialID])
				if _, txErr = purchase.AddItem(item.MaterialID, item.MaterialName, item.MaterialCode, item.Unit, item.Quantity, unitCost); txErr != nil {
					return txErr
				}
			}

			if txErr = repos.Purchases().Save(ctx, purchase); txErr != nil {
				return txErr
			}
			purchases = append(purchases, purchase)
		}

		if txErr := list.MarkOrdered(); txErr != nil {
			return txErr
		}
		return repos.ShoppingLists().SaveWithLock(ctx, list, expectedVersion)
	})
	if err != nil {
		s.logger.Error("Failed to convert shopping list",
			zap.String("list_id", list.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Shopping list converted to purchases",
		zap.String("list_id", list.ID.String()),
		zap.String("name", list.Name),
		zap.Int("purchases", len(purchases)))

	responses := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		responses[i] = FromPurchase(p)
	}
	return responses, nil
}

// availableByMaterial sums available stock per material across locations
func (s *ShoppingListService) availableByMaterial(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := s.stockRepo.FindWithStock(ctx, inventory.ItemTypeMaterial)
	if err != nil {
		return nil, err
	}

	available := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for i := range rows {
		available[rows[i].ItemID] = available[rows[i].ItemID].Add(rows[i].Available())
	}
	return available, nil
}

func (s *ShoppingListService) mutate(ctx context.Context, listID uuid.UUID, fn func(*trade.ShoppingList) error) (*ShoppingListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	expectedVersion := list.Version

	if err := fn(list); err != nil {
		return nil, err
	}

	if err := s.listRepo.SaveWithLock(ctx, list, expectedVersion); err != nil {
		s.logger.Error("Failed to save shopping list", zap.Error(err))
		return nil, err
	}

	response := FromShoppingList(list)
	return &response, nil
}
