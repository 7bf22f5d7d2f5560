package persistence

import (
	"context"

	"github.com/leathershop/backend/internal/domain/catalog"
	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/partner"
	"github.com/leathershop/backend/internal/domain/trade"
	"github.com/leathershop/backend/internal/domain/workshop"
	"gorm.io/gorm"
)

// UnitOfWork is the transaction boundary for flows touching more than
// one aggregate. It provides atomic execution of multiple repository
// operations: commit on nil return, rollback on error or panic.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Repositories bundles every repository bound to one transaction
type Repositories struct {
	Customers      partner.CustomerRepository
	Suppliers      partner.SupplierRepository
	Materials      catalog.MaterialRepository
	Products       catalog.ProductRepository
	Locations      inventory.StorageLocationRepository
	StockItems     inventory.StockItemRepository
	StockMovements inventory.StockMovementRepository
	Orders         trade.OrderRepository
	Sales          trade.SaleRepository
	Purchases      trade.PurchaseRepository
	ShoppingLists  trade.ShoppingListRepository
	Projects       workshop.ProjectRepository
	ToolLists      workshop.ToolListRepository
	PickingLists   workshop.PickingListRepository
}

// Execute runs the given function within a database transaction.
// Every repository handed to fn is scoped to that transaction, so a
// sale and its stock deduction either both land or neither does.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(r *Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// newRepositories builds the repository bundle on a transaction handle
func newRepositories(tx *gorm.DB) *Repositories {
	return &Repositories{
		Customers:      NewGormCustomerRepository(tx),
		Suppliers:      NewGormSupplierRepository(tx),
		Materials:      NewGormMaterialRepository(tx),
		Products:       NewGormProductRepository(tx),
		Locations:      NewGormStorageLocationRepository(tx),
		StockItems:     NewGormStockItemRepository(tx),
		StockMovements: NewGormStockMovementRepository(tx),
		Orders:         NewGormOrderRepository(tx),
		Sales:          NewGormSaleRepository(tx),
		Purchases:      NewGormPurchaseRepository(tx),
		ShoppingLists:  NewGormShoppingListRepository(tx),
		Projects:       NewGormProjectRepository(tx),
		ToolLists:      NewGormToolListRepository(tx),
		PickingLists:   NewGormPickingListRepository(tx),
	}
}
