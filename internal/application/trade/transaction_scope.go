package trade

import (
	"context"

	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the trade and stock
// repositories. Sale recording, purchase receipt, and shopping-list
// conversion mutate a trade document and stock rows together; running
// them in one scope makes the pair commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a trade
// flow touches, all bound to the same transaction.
type TransactionalRepositories interface {
	// Sales returns the sale repository scoped to the current transaction
	Sales() trade.SaleRepository
	// Purchases returns the purchase repository scoped to the current transaction
	Purchases() trade.PurchaseRepository
	// ShoppingLists returns the shopping list repository scoped to the current transaction
	ShoppingLists() trade.ShoppingListRepository
	// StockItems returns the stock item repository scoped to the current transaction
	StockItems() inventory.StockItemRepository
	// StockMovements returns the stock journal repository scoped to the current transaction
	StockMovements() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	sales          trade.SaleRepository
	purchases      trade.PurchaseRepository
	shoppingLists  trade.ShoppingListRepository
	stockItems     inventory.StockItemRepository
	stockMovements inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	sales trade.SaleRepository,
	purchases trade.PurchaseRepository,
	shoppingLists trade.ShoppingListRepository,
	stockItems inventory.StockItemRepository,
	stockMovements inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		sales:          sales,
		purchases:      purchases,
		shoppingLists:  shoppingLists,
		stockItems:     stockItems,
		stockMovements: stockMovements,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Sales returns the sale repository.
func (s *NoOpTransactionScope) Sales() trade.SaleRepository { return s.sales }

// Purchases returns the purchase repository.
func (s *NoOpTransactionScope) Purchases() trade.PurchaseRepository { return s.purchases }

// ShoppingLists returns the shopping list repository.
func (s *NoOpTransactionScope) ShoppingLists() trade.ShoppingListRepository { return s.shoppingLists }

// StockItems returns the stock item repository.
func (s *NoOpTransactionScope) StockItems() inventory.StockItemRepository { return s.stockItems }

// StockMovements returns the stock journal repository.
func (s *NoOpTransactionScope) StockMovements() inventory.StockMovementRepository {
	return s.stockMovements
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
