package persistence

import (
	"context"

	appinventory "github.com/leathershop/backend/internal/application/inventory"
	apptrade "github.com/leathershop/backend/internal/application/trade"
	appworkshop "github.com/leathershop/backend/internal/application/workshop"
	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
)

// The gorm transaction scopes bind each application package's
// TransactionScope to the UnitOfWork. Every accessor hands out a
// repository built on the same transaction handle.

// Compile-time interface checks
var (
	_ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
	_ apptrade.TransactionScope     = (*GormTradeTransactionScope)(nil)
	_ appworkshop.TransactionScope  = (*GormWorkshopTransactionScope)(nil)
)

// GormInventoryTransactionScope runs stock flows in one transaction
type GormInventoryTransactionScope struct {
	uow *UnitOfWork
}

// NewGormInventoryTransactionScope creates a transaction scope for the
// inventory services
func NewGormInventoryTransactionScope(uow *UnitOfWork) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{uow: uow}
}

// Execute implements appinventory.TransactionScope
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.uow.Execute(ctx, func(r *Repositories) error {
		return fn(&txRepositories{r: r})
	})
}

// GormTradeTransactionScope runs sale, purchase-receipt, and
// shopping-list flows in one transaction
type GormTradeTransactionScope struct {
	uow *UnitOfWork
}

// NewGormTradeTransactionScope creates a transaction scope for the
// trade services
func NewGormTradeTransactionScope(uow *UnitOfWork) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{uow: uow}
}

// Execute implements apptrade.TransactionScope
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.uow.Execute(ctx, func(r *Repositories) error {
		return fn(&txRepositories{r: r})
	})
}

// GormWorkshopTransactionScope runs project completion and picking
// flows in one transaction
type GormWorkshopTransactionScope struct {
	uow *UnitOfWork
}

// NewGormWorkshopTransactionScope creates a transaction scope for the
// workshop services
func NewGormWorkshopTransactionScope(uow *UnitOfWork) *GormWorkshopTransactionScope {
	return &GormWorkshopTransactionScope{uow: uow}
}

// Execute implements appworkshop.TransactionScope
func (s *GormWorkshopTransactionScope) Execute(ctx context.Context, fn func(repos appworkshop.TransactionalRepositories) error) error {
	return s.uow.Execute(ctx, func(r *Repositories) error {
		return fn(&txRepositories{r: r})
	})
}

// txRepositories adapts the UnitOfWork repository bundle to the
// accessor interfaces the application scopes expect. One type covers
// all three scopes since the accessor sets overlap.
type txRepositories struct {
	r *Repositories
}

func (t *txRepositories) StockItems() inventory.StockItemRepository {
	return t.r.StockItems
}

func (t *txRepositories) StockMovements() inventory.StockMovementRepository {
	return t.r.StockMovements
}

func (t *txRepositories) Sales() trade.SaleRepository {
	return t.r.Sales
}

func (t *txRepositories) Purchases() trade.PurchaseRepository {
	return t.r.Purchases
}

func (t *txRepositories) ShoppingLists() trade.ShoppingListRepository {
	return t.r.ShoppingLists
}

func (t *txRepositories) Projects() workshop.ProjectRepository {
	return t.r.Projects
}

func (t *txRepositories) PickingLists() workshop.PickingListRepository {
	return t.r.PickingLists
}

func (t *txRepositories) Products() catalog.ProductRepository {
	return t.r.Products
}
