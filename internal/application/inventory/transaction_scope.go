package inventory

import (
	"context"

	"github.com/leathershop/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. Both repositories share the same underlying transaction, so
// a stock row update and its journal movement land together or not at all.
type TransactionalRepositories interface {
	// StockItems returns the stock item repository scoped to the current transaction
	StockItems() inventory.StockItemRepository
	// StockMovements returns the stock journal repository scoped to the current transaction
	StockMovements() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	stockItems     inventory.StockItemRepository
	stockMovements inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockItems inventory.StockItemRepository,
	stockMovements inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockItems:     stockItems,
		stockMovements: stockMovements,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
