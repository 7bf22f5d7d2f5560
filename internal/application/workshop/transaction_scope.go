package workshop

import (
	"context"

	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/workshop"
)

// TransactionScope provides transactional access to the repositories the
// workshop flows touch. Completing a project updates the linked product,
// and picking moves reserved stock; both must land atomically with the
// workshop document.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the workshop, catalog and
// stock repositories within a transaction
type TransactionalRepositories interface {
	// Projects returns the project repository scoped to the current transaction
	Projects() workshop.ProjectRepository
	// PickingLists returns the picking list repository scoped to the current transaction
	PickingLists() workshop.PickingListRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// StockItems returns the stock item repository scoped to the current transaction
	StockItems() inventory.StockItemRepository
	// StockMovements returns the stock journal repository scoped to the current transaction
	StockMovements() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	projects       workshop.ProjectRepository
	pickingLists   workshop.PickingListRepository
	products       catalog.ProductRepository
	stockItems     inventory.StockItemRepository
	stockMovements inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	projects workshop.ProjectRepository,
	pickingLists workshop.PickingListRepository,
	products catalog.ProductRepository,
	stockItems inventory.StockItemRepository,
	stockMovements inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		projects:       projects,
		pickingLists:   pickingLists,
		products:       products,
		stockItems:     stockItems,
		stockMovements: stockMovements,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Projects returns the project repository.
func (s *NoOpTransactionScope) Projects() workshop.ProjectRepository {
	return s.projects
}

// PickingLists returns the picking list repository.
func (s *NoOpTransactionScope) PickingLists() workshop.PickingListRepository {
	return s.pickingLists
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// StockItems returns the stock item repository.
func (s *NoOpTransactionScope) StockItems() inventory.StockItemRepository {
	return s.stockItems
}

// StockMovements returns the stock journal repository.
func (s *NoOpTransactionScope) StockMovements() inventory.StockMovementRepository {
	return s.stockMovements
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
