package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/domain/trade"
)

func setupPurchaseTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&trade.Purchase{}, &trade.PurchaseItem{}))
	return db
}

func mustNewPurchase(t *testing.T, purchaseNumber string) *trade.Purchase {
	purchase, err := trade.NewPurchase(purchaseNumber, uuid.New(), "Gerberei Huber")
	require.NoError(t, err)
	return purchase
}

func TestGormPurchaseRepository_SaveAndFindByID(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	purchase := mustNewPurchase(t, "PU-2026-00001")
	_, err := purchase.AddItem(uuid.New(), "Vegetable tanned shoulder", "MAT-0001", "m2",
		decimal.NewFromFloat(4.5), valueobject.NewMoneyEURFromFloat(52.00))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, purchase))

	retrieved, err := repo.FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, "PU-2026-00001", retrieved.PurchaseNumber)
	require.Len(t, retrieved.Items, 1)
	assert.True(t, retrieved.TotalAmount.Equal(decimal.NewFromFloat(234.00)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormPurchaseRepository_ReceiveRoundTrip(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	materialID := uuid.New()
	purchase := mustNewPurchase(t, "PU-2026-00001")
	_, err := purchase.AddItem(materialID, "Vegetable tanned shoulder", "MAT-0001", "m2",
		decimal.NewFromInt(10), valueobject.NewMoneyEURFromFloat(50.00))
	require.NoError(t, err)
	require.NoError(t, purchase.Place())
	require.NoError(t, repo.Save(ctx, purchase))

	loaded, err := repo.FindByID(ctx, purchase.ID)
	require.NoError(t, err)

	_, err = loaded.Receive([]trade.ReceiveLine{
		{MaterialID: materialID, Quantity: decimal.NewFromInt(6)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	retrieved, err := repo.FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseStatusPartialReceived, retrieved.Status)
	require.Len(t, retrieved.Items, 1)
	assert.True(t, retrieved.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(6)))
}

func TestGormPurchaseRepository_FindOpen(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	draft := mustNewPurchase(t, "PU-2026-00001")
	require.NoError(t, repo.Save(ctx, draft))

	ordered := mustNewPurchase(t, "PU-2026-00002")
	_, err := ordered.AddItem(uuid.New(), "Thread", "MAT-0002", "pcs",
		decimal.NewFromInt(20), valueobject.NewMoneyEURFromFloat(4.50))
	require.NoError(t, err)
	require.NoError(t, ordered.Place())
	require.NoError(t, repo.Save(ctx, ordered))

	partial := mustNewPurchase(t, "PU-2026-00003")
	partialMaterial := uuid.New()
	_, err = partial.AddItem(partialMaterial, "Buckles", "MAT-0003", "pcs",
		decimal.NewFromInt(50), valueobject.NewMoneyEURFromFloat(2.20))
	require.NoError(t, err)
	require.NoError(t, partial.Place())
	_, err = partial.Receive([]trade.ReceiveLine{
		{MaterialID: partialMaterial, Quantity: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, partial))

	open, err := repo.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "PU-2026-00002", open[0].PurchaseNumber)
	assert.Equal(t, "PU-2026-00003", open[1].PurchaseNumber)
}

func TestGormPurchaseRepository_FindAll(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	supplierID := uuid.New()
	first, err := trade.NewPurchase("PU-2026-00001", supplierID, "Gerberei Huber")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second := mustNewPurchase(t, "PU-2026-00002")
	require.NoError(t, repo.Save(ctx, second))

	filter := shared.DefaultFilter()
	filter.Filters = map[string]interface{}{"supplier_id": supplierID}

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "PU-2026-00001", page.Items[0].PurchaseNumber)
}

func TestGormPurchaseRepository_SaveWithLock(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	purchase := mustNewPurchase(t, "PU-2026-00001")
	_, err := purchase.AddItem(uuid.New(), "Dye, walnut", "MAT-0004", "l",
		decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(18.00))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, purchase))

	loaded, err := repo.FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Place())

	require.NoError(t, repo.SaveWithLock(ctx, loaded, 1))

	retrieved, err := repo.FindByID(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseStatusOrdered, retrieved.Status)
	assert.Equal(t, 2, retrieved.Version)

	err = repo.SaveWithLock(ctx, retrieved, 1)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
}

func TestGormPurchaseRepository_NextNumber(t *testing.T) {
	db := setupPurchaseTestDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	number, err := repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PU-%d-00001", year), number)

	require.NoError(t, repo.Save(ctx, mustNewPurchase(t, number)))

	number, err = repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PU-%d-00002", year), number)
}
