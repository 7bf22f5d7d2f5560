package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leathershop/backend/internal/domain/inventory"
	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
)

func setupUnitOfWorkTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&trade.Sale{},
		&trade.SaleItem{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
	))
	return db
}

// seedStock puts five units of a product on the shelf
func seedStock(t *testing.T, db *gorm.DB, productID, locationID uuid.UUID) *inventory.StockItem {
	stock, err := inventory.NewStockItem(inventory.ItemTypeProduct, productID, locationID, "pcs")
	require.NoError(t, err)
	require.NoError(t, stock.Receive(decimal.NewFromInt(5), decimal.NewFromFloat(80.00)))
	require.NoError(t, NewGormStockItemRepository(db).Save(context.Background(), stock))
	return stock
}

func newCounterSale(t *testing.T, productID uuid.UUID) *trade.Sale {
	sale, err := trade.NewSale("SA-2026-00001", nil, "Walk-in", trade.PaymentMethodCash)
	require.NoError(t, err)
	_, err = sale.AddItem(productID, "Card holder", "PROD-0001", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(95.00))
	require.NoError(t, err)
	return sale
}

func TestUnitOfWork_Commit(t *testing.T) {
	db := setupUnitOfWorkTestDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	productID := uuid.New()
	locationID := uuid.New()
	stock := seedStock(t, db, productID, locationID)
	sale := newCounterSale(t, productID)

	err := uow.Execute(ctx, func(r *Repositories) error {
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}

		item, err := r.StockItems.FindByID(ctx, stock.ID)
		if err != nil {
			return err
		}
		if err := item.Deduct(decimal.NewFromInt(1)); err != nil {
			return err
		}
		if err := r.StockItems.SaveWithLock(ctx, item); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(
			inventory.MovementTypeSale, inventory.ItemTypeProduct,
			productID, locationID,
			decimal.NewFromInt(-1), decimal.NewFromFloat(80.00),
			sale.SaleNumber, "")
		if err != nil {
			return err
		}
		return r.StockMovements.Append(ctx, movement)
	})
	require.NoError(t, err)

	saleRepo := NewGormSaleRepository(db)
	saved, err := saleRepo.FindByNumber(ctx, "SA-2026-00001")
	require.NoError(t, err)
	assert.Len(t, saved.Items, 1)

	stockRepo := NewGormStockItemRepository(db)
	after, err := stockRepo.FindByID(ctx, stock.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(4)))

	var movements int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).Count(&movements).Error)
	assert.Equal(t, int64(1), movements)
}

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	db := setupUnitOfWorkTestDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	productID := uuid.New()
	locationID := uuid.New()
	stock := seedStock(t, db, productID, locationID)
	sale := newCounterSale(t, productID)

	boom := errors.New("boom")

	err := uow.Execute(ctx, func(r *Repositories) error {
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}

		item, err := r.StockItems.FindByID(ctx, stock.ID)
		if err != nil {
			return err
		}
		if err := item.Deduct(decimal.NewFromInt(1)); err != nil {
			return err
		}
		if err := r.StockItems.SaveWithLock(ctx, item); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	var sales int64
	require.NoError(t, db.Model(&trade.Sale{}).Count(&sales).Error)
	assert.Equal(t, int64(0), sales)

	stockRepo := NewGormStockItemRepository(db)
	after, err := stockRepo.FindByID(ctx, stock.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(5)), "stock deduction must be rolled back")
	assert.Equal(t, 1, after.Version)
}

func TestUnitOfWork_InsufficientStockAbortsSale(t *testing.T) {
	db := setupUnitOfWorkTestDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	productID := uuid.New()
	locationID := uuid.New()
	stock := seedStock(t, db, productID, locationID)
	sale := newCounterSale(t, productID)

	err := uow.Execute(ctx, func(r *Repositories) error {
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}

		item, err := r.StockItems.FindByID(ctx, stock.ID)
		if err != nil {
			return err
		}
		// More than is on the shelf
		if err := item.Deduct(decimal.NewFromInt(99)); err != nil {
			return err
		}
		return r.StockItems.SaveWithLock(ctx, item)
	})
	assert.Equal(t, shared.ErrInsufficientStock, err)

	var sales int64
	require.NoError(t, db.Model(&trade.Sale{}).Count(&sales).Error)
	assert.Equal(t, int64(0), sales, "sale must not survive a failed stock deduction")
}
