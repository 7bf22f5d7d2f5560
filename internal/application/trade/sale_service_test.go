package trade

import (
	"context"
	"testing"
	"time"

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
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSaleRepository is a mock implementation of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, saleNumber string) (*trade.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Sale], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.Sale]), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*trade.Sale, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByPeriod(ctx context.Context, from, to time.Time) ([]*trade.Sale, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale, expectedVersion int) error {
	args := m.Called(ctx, sale, expectedVersion)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockStorageLocationRepository is a mock implementation of inventory.StorageLocationRepository
type MockStorageLocationRepository struct {
	mock.Mock
}

func (m *MockStorageLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StorageLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StorageLocation), args.Error(1)
}

func (m *MockStorageLocationRepository) FindByCode(ctx context.Context, code string) (*inventory.StorageLocation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StorageLocation), args.Error(1)
}

func (m *MockStorageLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StorageLocation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StorageLocation), args.Error(1)
}

func (m *MockStorageLocationRepository) FindActive(ctx context.Context, filter shared.Filter) ([]inventory.StorageLocation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StorageLocation), args.Error(1)
}

func (m *MockStorageLocationRepository) Save(ctx context.Context, location *inventory.StorageLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockStorageLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorageLocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorageLocationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockStockItemRepository is a mock implementation of inventory.StockItemRepository
type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByItemAndLocation(ctx context.Context, itemType inventory.ItemType, itemID, locationID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, itemType, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, itemType, itemID)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, locationID, filter)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindWithStock(ctx context.Context, itemType inventory.ItemType) ([]inventory.StockItem, error) {
	args := m.Called(ctx, itemType)
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockItemRepository) CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByItem(ctx context.Context, itemType inventory.ItemType, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, itemType, itemID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, locationID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

type saleServiceMocks struct {
	sales     *MockSaleRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
	locations *MockStorageLocationRepository
	stock     *MockStockItemRepository
	movements *MockStockMovementRepository
}

func newSaleService(t *testing.T) (*SaleService, *saleServiceMocks) {
	t.Helper()
	m := &saleServiceMocks{
		sales:     new(MockSaleRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
		locations: new(MockStorageLocationRepository),
		stock:     new(MockStockItemRepository),
		movements: new(MockStockMovementRepository),
	}
	scope := NewNoOpTransactionScope(m.sales, new(MockPurchaseRepository), new(MockShoppingListRepository), m.stock, m.movements)
	service := NewSaleService(m.sales, m.customers, m.products, m.locations, scope, valueobject.NewMoneyFactory(valueobject.EUR), zap.NewNop())
	return service, m
}

func newTestSaleLocation(t *testing.T) *inventory.StorageLocation {
	t.Helper()
	location, err := inventory.NewStorageLocation("SHOP-FLOOR", "Shop floor display", inventory.LocationKindShelf)
	require.NoError(t, err)
	return location
}

func newStockedProductRow(t *testing.T, productID, locationID uuid.UUID, quantity, unitCost string) *inventory.StockItem {
	t.Helper()
	row, err := inventory.NewStockItem(inventory.ItemTypeProduct, productID, locationID, "pcs")
	require.NoError(t, err)
	require.NoError(t, row.Receive(decimal.RequireFromString(quantity), decimal.RequireFromString(unitCost)))
	return row
}

// =============================================================================
// Tests
// =============================================================================

func TestSaleService_RecordSale_DeductsStockAndJournals(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()
	product := newTestProduct(t, "PRD-WALLET-01", "Bifold wallet", "95.00")
	location := newTestSaleLocation(t)
	row := newStockedProductRow(t, product.ID, location.ID, "5", "38.00")

	m.locations.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	m.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	m.sales.On("NextNumber", mock.Anything).Return("SA-2026-00007", nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, product.ID, location.ID).Return(row, nil)
	m.stock.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(r *inventory.StockItem) bool {
		return r.Quantity.Equal(decimal.NewFromInt(3))
	})).Return(nil)
	m.movements.On("Append", mock.Anything, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
		return mv.Type == inventory.MovementTypeSale &&
			mv.Quantity.Equal(decimal.NewFromInt(-2)) &&
			mv.Reference == "SA-2026-00007"
	})).Return(nil)
	m.sales.On("Save", mock.Anything, mock.MatchedBy(func(s *trade.Sale) bool {
		return s.Status == trade.SaleStatusCompleted
	})).Return(nil)

	result, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    location.ID,
		PaymentMethod: "cash",
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
		},
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "SA-2026-00007", result.SaleNumber)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("190.00")))
	m.stock.AssertExpectations(t)
	m.movements.AssertExpectations(t)
	m.sales.AssertExpectations(t)
}

func TestSaleService_RecordSale_TagsLogsWithOperation(t *testing.T) {
	_, m := newSaleService(t)
	core, logs := observer.New(zap.InfoLevel)
	scope := NewNoOpTransactionScope(m.sales, new(MockPurchaseRepository), new(MockShoppingListRepository), m.stock, m.movements)
	service := NewSaleService(m.sales, m.customers, m.products, m.locations, scope, valueobject.NewMoneyFactory(valueobject.EUR), zap.New(core))

	ctx := context.Background()
	product := newTestProduct(t, "PRD-WALLET-01", "Bifold wallet", "95.00")
	location := newTestSaleLocation(t)
	row := newStockedProductRow(t, product.ID, location.ID, "5", "38.00")

	m.locations.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	m.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	m.sales.On("NextNumber", mock.Anything).Return("SA-2026-00009", nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, product.ID, location.ID).Return(row, nil)
	m.stock.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
	m.movements.On("Append", mock.Anything, mock.Anything).Return(nil)
	m.sales.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    location.ID,
		PaymentMethod: "cash",
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	entries := logs.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "record-sale", entries[0].ContextMap()["operation"])
}

func TestSaleService_RecordSale_UsesConfiguredCurrency(t *testing.T) {
	_, m := newSaleService(t)
	scope := NewNoOpTransactionScope(m.sales, new(MockPurchaseRepository), new(MockShoppingListRepository), m.stock, m.movements)
	service := NewSaleService(m.sales, m.customers, m.products, m.locations, scope, valueobject.NewMoneyFactory(valueobject.USD), zap.NewNop())

	ctx := context.Background()
	product := newTestProduct(t, "PRD-WALLET-01", "Bifold wallet", "95.00")
	location := newTestSaleLocation(t)
	row := newStockedProductRow(t, product.ID, location.ID, "5", "38.00")

	m.locations.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	m.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	m.sales.On("NextNumber", mock.Anything).Return("SA-2026-00008", nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, product.ID, location.ID).Return(row, nil)
	m.stock.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
	m.movements.On("Append", mock.Anything, mock.Anything).Return(nil)
	m.sales.On("Save", mock.Anything, mock.MatchedBy(func(s *trade.Sale) bool {
		return s.Currency == valueobject.USD
	})).Return(nil)

	result, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    location.ID,
		PaymentMethod: "card",
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "USD", result.Currency)
	m.sales.AssertExpectations(t)
}

func TestSaleService_RecordSale_InsufficientStock(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()
	product := newTestProduct(t, "PRD-WALLET-01", "Bifold wallet", "95.00")
	location := newTestSaleLocation(t)
	row := newStockedProductRow(t, product.ID, location.ID, "1", "38.00")

	m.locations.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	m.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	m.sales.On("NextNumber", mock.Anything).Return("SA-2026-00008", nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, product.ID, location.ID).Return(row, nil)

	result, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    location.ID,
		PaymentMethod: "card",
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	m.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.movements.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSaleService_RecordSale_NoStockRowAtLocation(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()
	product := newTestProduct(t, "PRD-WALLET-01", "Bifold wallet", "95.00")
	location := newTestSaleLocation(t)

	m.locations.On("FindByID", mock.Anything, location.ID).Return(location, nil)
	m.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	m.sales.On("NextNumber", mock.Anything).Return("SA-2026-00009", nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, product.ID, location.ID).
		Return(nil, shared.ErrNotFound)

	result, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    location.ID,
		PaymentMethod: "cash",
		Items: []SaleLineRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}

func TestSaleService_RecordSale_EmptyItemsRejected(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()

	result, err := service.RecordSale(ctx, RecordSaleRequest{
		LocationID:    uuid.New(),
		PaymentMethod: "cash",
		Items:         []SaleLineRequest{},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	m.sales.AssertNotCalled(t, "NextNumber", mock.Anything)
}

func TestSaleService_Void_RestoresStockAtOriginalCost(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()

	sale, err := trade.NewSale("SA-2026-00010", nil, "", trade.PaymentMethodCash)
	require.NoError(t, err)
	_, err = sale.AddItem(productID, "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(95))
	require.NoError(t, err)
	require.NoError(t, sale.Complete())
	expectedVersion := sale.Version

	// The row after the sale: started at 5 @ 38.00, 2 were sold
	row, err := inventory.NewStockItem(inventory.ItemTypeProduct, productID, locationID, "pcs")
	require.NoError(t, err)
	require.NoError(t, row.Receive(decimal.NewFromInt(5), decimal.RequireFromString("38.00")))
	require.NoError(t, row.Deduct(decimal.NewFromInt(2)))

	saleMovement, err := inventory.NewStockMovement(
		inventory.MovementTypeSale, inventory.ItemTypeProduct, productID, locationID,
		decimal.NewFromInt(-2), decimal.RequireFromString("38.00"), "SA-2026-00010", "")
	require.NoError(t, err)

	m.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	m.movements.On("FindByReference", mock.Anything, "SA-2026-00010").Return([]inventory.StockMovement{*saleMovement}, nil)
	m.stock.On("FindByItemAndLocation", mock.Anything, inventory.ItemTypeProduct, productID, locationID).Return(row, nil)
	m.stock.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(r *inventory.StockItem) bool {
		return r.Quantity.Equal(decimal.NewFromInt(5))
	})).Return(nil)
	m.movements.On("Append", mock.Anything, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
		return mv.Type == inventory.MovementTypeVoid &&
			mv.Quantity.Equal(decimal.NewFromInt(2)) &&
			mv.UnitCost.Equal(decimal.RequireFromString("38.00"))
	})).Return(nil)
	m.sales.On("SaveWithLock", mock.Anything, sale, expectedVersion).Return(nil)

	result, err := service.Void(ctx, sale.ID, "customer returned the goods")

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "VOIDED", result.Status)
	assert.Equal(t, "customer returned the goods", result.VoidReason)
	m.stock.AssertExpectations(t)
	m.movements.AssertExpectations(t)
	m.sales.AssertExpectations(t)
}

func TestSaleService_Void_AlreadyVoided(t *testing.T) {
	service, m := newSaleService(t)

	ctx := context.Background()
	sale, err := trade.NewSale("SA-2026-00011", nil, "", trade.PaymentMethodCard)
	require.NoError(t, err)
	_, err = sale.AddItem(uuid.New(), "Belt", "PRD-BELT-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89))
	require.NoError(t, err)
	require.NoError(t, sale.Complete())
	require.NoError(t, sale.Void("first void"))

	m.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	result, err := service.Void(ctx, sale.ID, "second void")

	assert.Error(t, err)
	assert.Nil(t, result)
	m.movements.AssertNotCalled(t, "FindByReference", mock.Anything, mock.Anything)
}
