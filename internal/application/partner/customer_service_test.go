package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
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

func newTestCustomer(t *testing.T, code, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(code, name)
	require.NoError(t, err)
	return customer
}

// =============================================================================
// CustomerService Tests
// =============================================================================

func TestCustomerService_Create_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := CreateCustomerRequest{
		Code: "CU-0007",
		Name: "Anna Bergmann",
	}

	mockRepo.On("ExistsByCode", ctx, "CU-0007").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "CU-0007", result.Code)
	assert.Equal(t, "Anna Bergmann", result.Name)
	assert.Equal(t, "active", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_GeneratesCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := CreateCustomerRequest{Name: "Bruno Keller"}

	mockRepo.On("NextCode", ctx).Return("CU-0042", nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "CU-0042", result.Code)
	mockRepo.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_UppercasesCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := CreateCustomerRequest{Code: "cu-0008", Name: "Clara Vogt"}

	mockRepo.On("ExistsByCode", ctx, "CU-0008").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "CU-0008", result.Code)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := CreateCustomerRequest{Code: "CU-0001", Name: "Anna Bergmann"}

	mockRepo.On("ExistsByCode", ctx, "CU-0001").Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_ValidationFailed(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	req := CreateCustomerRequest{Code: "CU-0001", Email: "not-an-email"}

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	mockRepo.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything)
}

func TestCustomerService_GetByID_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	result, err := service.GetByID(ctx, customer.ID)

	assert.NoError(t, err)
	assert.Equal(t, customer.ID, result.ID)
	assert.Equal(t, "Anna Bergmann", result.Name)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, id)

	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_MapsFilter(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customers := []partner.Customer{
		*newTestCustomer(t, "CU-0001", "Anna Bergmann"),
		*newTestCustomer(t, "CU-0002", "Bruno Keller"),
	}

	expected := shared.Filter{
		Page:     2,
		PageSize: 10,
		OrderBy:  "code",
		OrderDir: "asc",
		Search:   "berg",
		Filters:  map[string]interface{}{"status": "active", "city": "Berlin"},
	}

	mockRepo.On("FindAll", ctx, expected).Return(customers, nil)
	mockRepo.On("Count", ctx, expected).Return(int64(2), nil)

	result, total, err := service.List(ctx, CustomerListFilter{
		Search:   "berg",
		Status:   "active",
		City:     "Berlin",
		Page:     2,
		PageSize: 10,
		OrderBy:  "code",
		OrderDir: "asc",
	})

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), total)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_RejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	_, _, err := service.List(context.Background(), CustomerListFilter{Status: "suspended"})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")
	require.NoError(t, customer.SetContact("+49 30 1234", "anna@example.de"))

	newName := "Anna Bergmann-Roth"
	newEmail := "anna.roth@example.de"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("SaveWithLock", ctx, customer).Return(nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{
		Name:  &newName,
		Email: &newEmail,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Anna Bergmann-Roth", result.Name)
	assert.Equal(t, "anna.roth@example.de", result.Email)
	// Phone untouched by a partial update
	assert.Equal(t, "+49 30 1234", result.Phone)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_ConcurrentModification(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")
	newName := "Anna B."

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("SaveWithLock", ctx, customer).
		Return(shared.NewDomainError("CONCURRENT_MODIFICATION", "Customer was modified by another process"))

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Name: &newName})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Deactivate_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("SaveWithLock", ctx, customer).Return(nil)

	result, err := service.Deactivate(ctx, customer.ID)

	assert.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Delete", ctx, customer.ID).Return(nil)

	err := service.Delete(ctx, customer.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, zap.NewNop())

	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFromCustomer(t *testing.T) {
	customer := newTestCustomer(t, "CU-0001", "Anna Bergmann")
	require.NoError(t, customer.SetContact("+49 30 1234", "anna@example.de"))
	require.NoError(t, customer.SetAddress("Hauptstr. 1", "Berlin", "10115", "Deutschland"))

	response := FromCustomer(customer)

	assert.Equal(t, customer.ID, response.ID)
	assert.Equal(t, "CU-0001", response.Code)
	assert.Equal(t, "Anna Bergmann", response.Name)
	assert.Equal(t, "active", response.Status)
	assert.Equal(t, "Berlin", response.City)
	assert.Equal(t, customer.Version, response.Version)
}
