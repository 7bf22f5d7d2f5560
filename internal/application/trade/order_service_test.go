package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/partner"
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

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[trade.Order]), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*trade.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus) ([]*trade.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOpen(ctx context.Context) ([]*trade.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) NextCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

type orderServiceMocks struct {
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
}

func newOrderService(t *testing.T) (*OrderService, *orderServiceMocks) {
	t.Helper()
	m := &orderServiceMocks{
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
	}
	service := NewOrderService(m.orders, m.customers, m.products, valueobject.NewMoneyFactory(valueobject.EUR), zap.NewNop())
	return service, m
}

func newTestCustomer(t *testing.T, code, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(code, name)
	require.NoError(t, err)
	return customer
}

func newTestOrder(t *testing.T, customer *partner.Customer) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder("SO-2026-00001", customer.ID, customer.Name)
	require.NoError(t, err)
	return order
}

func newTestProduct(t *testing.T, code, name, price string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name)
	require.NoError(t, err)
	require.NoError(t, product.SetSellingPrice(decimal.RequireFromString(price)))
	return product
}

// =============================================================================
// Tests
// =============================================================================

func TestOrderService_Create_Success(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	due := time.Now().AddDate(0, 1, 0)

	m.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
	m.orders.On("NextNumber", ctx).Return("SO-2026-00042", nil)
	m.orders.On("Save", ctx, mock.MatchedBy(func(o *trade.Order) bool {
		return o.OrderNumber == "SO-2026-00042" && o.Status == trade.OrderStatusDraft
	})).Return(nil)

	result, err := service.Create(ctx, CreateOrderRequest{
		CustomerID: customer.ID,
		DueDate:    &due,
		Notes:      "belt with custom buckle",
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "SO-2026-00042", result.OrderNumber)
	assert.Equal(t, customer.Name, result.CustomerName)
	assert.Equal(t, "DRAFT", result.Status)
	m.orders.AssertExpectations(t)
}

func TestOrderService_Create_CustomerNotFound(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customerID := uuid.New()

	m.customers.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, CreateOrderRequest{CustomerID: customerID})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_AddItem_CatalogProductDefaults(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)
	product := newTestProduct(t, "PRD-BELT-01", "Classic belt", "89.00")

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	m.products.On("FindByID", ctx, product.ID).Return(product, nil)
	m.orders.On("SaveWithLock", ctx, order, 1).Return(nil)

	result, err := service.AddItem(ctx, order.ID, OrderItemRequest{
		ProductID: &product.ID,
		Quantity:  decimal.NewFromInt(2),
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Classic belt", result.Items[0].Description)
	assert.True(t, result.Items[0].UnitPrice.Equal(decimal.RequireFromString("89.00")))
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("178.00")))
	m.orders.AssertExpectations(t)
}

func TestOrderService_AddItem_BespokeLine(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orders.On("SaveWithLock", ctx, order, 1).Return(nil)

	result, err := service.AddItem(ctx, order.ID, OrderItemRequest{
		Description: "Custom watch strap, 20mm, dark brown",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.RequireFromString("45.00"),
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)
	assert.Nil(t, result.Items[0].ProductID)
	m.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderService_Lifecycle_ConfirmToDeliver(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)
	_, err := order.AddItem(nil, "Tote bag", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(240))
	require.NoError(t, err)

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orders.On("SaveWithLock", ctx, order, mock.AnythingOfType("int")).Return(nil)

	result, err := service.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", result.Status)

	result, err = service.Start(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", result.Status)

	result, err = service.MarkReady(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", result.Status)

	result, err = service.Deliver(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", result.Status)
	assert.NotNil(t, result.DeliveredAt)
}

func TestOrderService_Confirm_EmptyOrderRejected(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)

	result, err := service.Confirm(ctx, order.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
	m.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ApplyDiscount(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)
	_, err := order.AddItem(nil, "Messenger bag", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(320))
	require.NoError(t, err)

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orders.On("SaveWithLock", ctx, order, mock.AnythingOfType("int")).Return(nil)

	result, err := service.ApplyDiscount(ctx, order.ID, decimal.NewFromInt(20))

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.PayableAmount.Equal(decimal.NewFromInt(300)))
}

func TestOrderService_Delete_NonDraftRejected(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Marta Keller")
	order := newTestOrder(t, customer)
	_, err := order.AddItem(nil, "Wallet", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(95))
	require.NoError(t, err)
	require.NoError(t, order.Confirm())

	m.orders.On("FindByID", ctx, order.ID).Return(order, nil)

	err = service.Delete(ctx, order.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	m.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderService_List_FilterMapping(t *testing.T) {
	service, m := newOrderService(t)

	ctx := context.Background()
	customerID := uuid.New().String()

	m.orders.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["customer_id"] == customerID && f.Filters["status"] == "CONFIRMED"
	})).Return(&shared.Paginated[trade.Order]{Items: []trade.Order{}, Page: 1, PageSize: 20}, nil)

	result, err := service.List(ctx, OrderListFilter{CustomerID: customerID, Status: "CONFIRMED"})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Items)
	m.orders.AssertExpectations(t)
}
