package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockShoppingListRepository is a mock implementation of trade.ShoppingListRepository
type MockShoppingListRepository struct {
	mock.Mock
}

func (m *MockShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ShoppingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ShoppingList), args.Error(1)
}

func (m *MockShoppingListRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.ShoppingList], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.ShoppingList]), args.Error(1)
}

func (m *MockShoppingListRepository) FindOpen(ctx context.Context) ([]*trade.ShoppingList, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*trade.ShoppingList), args.Error(1)
}

func (m *MockShoppingListRepository) Save(ctx context.Context, list *trade.ShoppingList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockShoppingListRepository) SaveWithLock(ctx context.Context, list *trade.ShoppingList, expectedVersion int) error {
	args := m.Called(ctx, list, expectedVersion)
	return args.Error(0)
}

func (m *MockShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShoppingListRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

type shoppingListServiceMocks struct {
	lists     *MockShoppingListRepository
	materials *MockMaterialRepository
	suppliers *MockSupplierRepository
	stock     *MockStockItemRepository
	purchases *MockPurchaseRepository
}

func newShoppingListService(t *testing.T) (*ShoppingListService, *shoppingListServiceMocks) {
	t.Helper()
	m := &shoppingListServiceMocks{
		lists:     new(MockShoppingListRepository),
		materials: new(MockMaterialRepository),
		suppliers: new(MockSupplierRepository),
		stock:     new(MockStockItemRepository),
		purchases: new(MockPurchaseRepository),
	}
	scope := NewNoOpTransactionScope(new(MockSaleRepository), m.purchases, m.lists, m.stock, new(MockStockMovementRepository))
	service := NewShoppingListService(m.lists, m.materials, m.suppliers, m.stock, scope, valueobject.NewMoneyFactory(valueobject.EUR), zap.NewNop())
	return service, m
}

func stockRowFor(t *testing.T, materialID uuid.UUID, quantity string) inventory.StockItem {
	t.Helper()
	row, err := inventory.NewStockItem(inventory.ItemTypeMaterial, materialID, uuid.New(), "dm2")
	require.NoError(t, err)
	require.NoError(t, row.Receive(decimal.RequireFromString(quantity), decimal.RequireFromString("5.00")))
	return *row
}

// =============================================================================
// Tests
// =============================================================================

func TestShoppingListService_GenerateFromLowStock(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	supplierID := uuid.New()

	short := newTestMaterial(t, "MAT-LTH-001", "Veg-tan shoulder", "8.50")
	require.NoError(t, short.SetMinStock(decimal.NewFromInt(50)))
	require.NoError(t, short.SetPreferredSupplier(supplierID))

	stocked := newTestMaterial(t, "MAT-LTH-002", "Chrome-tan side", "6.20")
	require.NoError(t, stocked.SetMinStock(decimal.NewFromInt(20)))

	noMinimum := newTestMaterial(t, "MAT-HW-001", "Brass buckle 35mm", "1.10")

	m.stock.On("FindWithStock", ctx, inventory.ItemTypeMaterial).Return([]inventory.StockItem{
		stockRowFor(t, short.ID, "15"),
		stockRowFor(t, stocked.ID, "80"),
	}, nil)
	m.materials.On("FindActive", ctx, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Material{*short, *stocked, *noMinimum}, nil)
	m.lists.On("Save", ctx, mock.MatchedBy(func(l *trade.ShoppingList) bool {
		return len(l.Items) == 1 &&
			l.Items[0].MaterialID == short.ID &&
			l.Items[0].Quantity.Equal(decimal.NewFromInt(35)) &&
			l.Items[0].SupplierID != nil && *l.Items[0].SupplierID == supplierID
	})).Return(nil)

	result, err := service.GenerateFromLowStock(ctx, "Weekly restock")

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Weekly restock", result.Name)
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].Quantity.Equal(decimal.NewFromInt(35)))
	m.lists.AssertExpectations(t)
}

func TestShoppingListService_GenerateFromLowStock_NothingBelowMinimum(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	material := newTestMaterial(t, "MAT-LTH-001", "Veg-tan shoulder", "8.50")
	require.NoError(t, material.SetMinStock(decimal.NewFromInt(10)))

	m.stock.On("FindWithStock", ctx, inventory.ItemTypeMaterial).Return([]inventory.StockItem{
		stockRowFor(t, material.ID, "40"),
	}, nil)
	m.materials.On("FindActive", ctx, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Material{*material}, nil)

	result, err := service.GenerateFromLowStock(ctx, "")

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
	m.lists.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShoppingListService_AddItem_MergesDuplicateMaterial(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	material := newTestMaterial(t, "MAT-LTH-001", "Veg-tan shoulder", "8.50")

	list, err := trade.NewShoppingList("Trade fair prep")
	require.NoError(t, err)
	_, err = list.AddItem(material.ID, material.Name, material.Code, material.Unit, decimal.NewFromInt(10), nil)
	require.NoError(t, err)

	m.materials.On("FindByID", ctx, material.ID).Return(material, nil)
	m.lists.On("FindByID", ctx, list.ID).Return(list, nil)
	m.lists.On("SaveWithLock", ctx, list, mock.AnythingOfType("int")).Return(nil)

	result, err := service.AddItem(ctx, list.ID, ShoppingListItemRequest{
		MaterialID: material.ID,
		Quantity:   decimal.NewFromInt(5),
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].Quantity.Equal(decimal.NewFromInt(15)))
}

func TestShoppingListService_ConvertToPurchases_GroupsBySupplier(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	leatherSupplier := newTestSupplier(t, "SU-0001", "Tannerie Dubois")
	hardwareSupplier := newTestSupplier(t, "SU-0002", "Beschlag und Sohn")
	leather := newTestMaterial(t, "MAT-LTH-001", "Veg-tan shoulder", "8.50")
	buckle := newTestMaterial(t, "MAT-HW-001", "Brass buckle 35mm", "1.10")

	list, err := trade.NewShoppingList("Weekly restock")
	require.NoError(t, err)
	_, err = list.AddItem(leather.ID, leather.Name, leather.Code, leather.Unit, decimal.NewFromInt(35), &leatherSupplier.ID)
	require.NoError(t, err)
	_, err = list.AddItem(buckle.ID, buckle.Name, buckle.Code, buckle.Unit, decimal.NewFromInt(60), &hardwareSupplier.ID)
	require.NoError(t, err)
	expectedVersion := list.Version

	m.lists.On("FindByID", ctx, list.ID).Return(list, nil)
	m.suppliers.On("FindByID", ctx, leatherSupplier.ID).Return(leatherSupplier, nil)
	m.suppliers.On("FindByID", ctx, hardwareSupplier.ID).Return(hardwareSupplier, nil)
	m.materials.On("FindByIDs", ctx, []uuid.UUID{leather.ID}).Return([]catalog.Material{*leather}, nil)
	m.materials.On("FindByIDs", ctx, []uuid.UUID{buckle.ID}).Return([]catalog.Material{*buckle}, nil)
	m.purchases.On("NextNumber", ctx).Return("PU-2026-00020", nil).Once()
	m.purchases.On("NextNumber", ctx).Return("PU-2026-00021", nil).Once()
	m.purchases.On("Save", ctx, mock.MatchedBy(func(p *trade.Purchase) bool {
		return p.Status == trade.PurchaseStatusDraft && len(p.Items) == 1
	})).Return(nil).Twice()
	m.lists.On("SaveWithLock", ctx, list, expectedVersion).Return(nil)

	purchases, err := service.ConvertToPurchases(ctx, list.ID)

	assert.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "ORDERED", string(list.Status))
	m.purchases.AssertExpectations(t)
	m.lists.AssertExpectations(t)
}

func TestShoppingListService_ConvertToPurchases_MissingSupplierRejected(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	leather := newTestMaterial(t, "MAT-LTH-001", "Veg-tan shoulder", "8.50")

	list, err := trade.NewShoppingList("Weekly restock")
	require.NoError(t, err)
	_, err = list.AddItem(leather.ID, leather.Name, leather.Code, leather.Unit, decimal.NewFromInt(35), nil)
	require.NoError(t, err)

	m.lists.On("FindByID", ctx, list.ID).Return(list, nil)

	purchases, err := service.ConvertToPurchases(ctx, list.ID)

	assert.Nil(t, purchases)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_SUPPLIER", domainErr.Code)
	m.purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShoppingListService_ConvertToPurchases_EmptyListRejected(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	list, err := trade.NewShoppingList("Empty list")
	require.NoError(t, err)

	m.lists.On("FindByID", ctx, list.ID).Return(list, nil)

	purchases, err := service.ConvertToPurchases(ctx, list.ID)

	assert.Nil(t, purchases)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
}

func TestShoppingListService_MarkDone_RequiresOrdered(t *testing.T) {
	service, m := newShoppingListService(t)

	ctx := context.Background()
	list, err := trade.NewShoppingList("Weekly restock")
	require.NoError(t, err)

	m.lists.On("FindByID", ctx, list.ID).Return(list, nil)

	result, err := service.MarkDone(ctx, list.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	m.lists.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}
