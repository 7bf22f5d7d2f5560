package trade

import (
	"testing"

	"github.com/leathershop/backend/internal/domain/shared"
	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale("SA-2025-00001", nil, "", PaymentMethodCash)
	require.NoError(t, err)
	return sale
}

func TestNewSale(t *testing.T) {
	t.Run("creates walk-in sale", func(t *testing.T) {
		sale, err := NewSale("SA-2025-00001", nil, "", PaymentMethodCash)
		require.NoError(t, err)
		require.NotNil(t, sale)

		assert.Equal(t, "SA-2025-00001", sale.SaleNumber)
		assert.True(t, sale.IsWalkIn())
		assert.Equal(t, SaleStatusOpen, sale.Status)
		assert.Equal(t, PaymentMethodCash, sale.PaymentMethod)
		assert.True(t, sale.TotalAmount.IsZero())
		assert.False(t, sale.SaleDate.IsZero())
	})

	t.Run("creates sale for known customer", func(t *testing.T) {
		customerID := uuid.New()
		sale, err := NewSale("SA-2025-00002", &customerID, "Anna Bergmann", PaymentMethodCard)
		require.NoError(t, err)

		assert.False(t, sale.IsWalkIn())
		assert.Equal(t, customerID, *sale.CustomerID)
		assert.Equal(t, "Anna Bergmann", sale.CustomerName)
	})

	t.Run("fails with empty sale number", func(t *testing.T) {
		_, err := NewSale("", nil, "", PaymentMethodCash)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sale number cannot be empty")
	})

	t.Run("fails with invalid payment method", func(t *testing.T) {
		_, err := NewSale("SA-2025-00003", nil, "", PaymentMethod("cheque"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Payment method")
	})

	t.Run("fails with zero customer UUID", func(t *testing.T) {
		nilID := uuid.Nil
		_, err := NewSale("SA-2025-00004", &nilID, "Anna", PaymentMethodCash)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zero UUID")
	})
}

func TestSaleAddItem(t *testing.T) {
	t.Run("adds item and totals", func(t *testing.T) {
		sale := newTestSale(t)

		item, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, "PRD-WALLET-01", item.ProductCode)
		assert.True(t, item.Amount.Equal(decimal.NewFromFloat(178.00)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(178.00)))
	})

	t.Run("adopts the currency of the first item", func(t *testing.T) {
		sale := newTestSale(t)

		usd := valueobject.NewMoneyFactory(valueobject.USD)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), usd.New(decimal.NewFromInt(95)))
		require.NoError(t, err)
		assert.Equal(t, valueobject.USD, sale.Currency)
	})

	t.Run("rejects mixing currencies", func(t *testing.T) {
		sale := newTestSale(t)

		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)

		usd := valueobject.NewMoneyFactory(valueobject.USD)
		_, err = sale.AddItem(uuid.New(), "Card holder", "PRD-CARD-01", decimal.NewFromInt(1), usd.New(decimal.NewFromInt(45)))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		sale := newTestSale(t)
		productID := uuid.New()

		_, err := sale.AddItem(productID, "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)

		_, err = sale.AddItem(productID, "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists in sale")
	})

	t.Run("fails after completion", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NoError(t, sale.Complete())

		_, err = sale.AddItem(uuid.New(), "Card holder", "PRD-CARD-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(45.00))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "completed sale")
	})
}

func TestSaleRemoveItem(t *testing.T) {
	t.Run("removes item and recalculates", func(t *testing.T) {
		sale := newTestSale(t)
		item, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Card holder", "PRD-CARD-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(45.00))
		require.NoError(t, err)

		require.NoError(t, sale.RemoveItem(item.ID))
		assert.Equal(t, 1, sale.ItemCount())
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(45.00)))
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		sale := newTestSale(t)

		err := sale.RemoveItem(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestSaleComplete(t *testing.T) {
	t.Run("completes sale with items", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)

		require.NoError(t, sale.Complete())
		assert.Equal(t, SaleStatusCompleted, sale.Status)
	})

	t.Run("rejects completing an empty sale", func(t *testing.T) {
		sale := newTestSale(t)

		err := sale.Complete()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without items")
	})

	t.Run("rejects completing twice", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NoError(t, sale.Complete())

		err = sale.Complete()
		require.Error(t, err)
	})
}

func TestSaleVoid(t *testing.T) {
	t.Run("voids a completed sale", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NoError(t, sale.Complete())

		require.NoError(t, sale.Void("Wrong item rung up"))
		assert.Equal(t, SaleStatusVoided, sale.Status)
		assert.Equal(t, "Wrong item rung up", sale.VoidReason)
		assert.NotNil(t, sale.VoidedAt)
	})

	t.Run("rejects voiding an open sale", func(t *testing.T) {
		sale := newTestSale(t)

		err := sale.Void("Mistake")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot void sale")
	})

	t.Run("requires a void reason", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NoError(t, sale.Complete())

		err = sale.Void("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason is required")
	})

	t.Run("rejects voiding twice", func(t *testing.T) {
		sale := newTestSale(t)
		_, err := sale.AddItem(uuid.New(), "Bifold wallet", "PRD-WALLET-01", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(89.00))
		require.NoError(t, err)
		require.NoError(t, sale.Complete())
		require.NoError(t, sale.Void("First void"))

		err = sale.Void("Second void")
		require.Error(t, err)
	})
}

func TestPaymentMethod(t *testing.T) {
	t.Run("accepts known methods", func(t *testing.T) {
		assert.True(t, PaymentMethodCash.IsValid())
		assert.True(t, PaymentMethodCard.IsValid())
		assert.True(t, PaymentMethodTransfer.IsValid())
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		assert.False(t, PaymentMethod("bitcoin").IsValid())
		assert.False(t, PaymentMethod("").IsValid())
	})
}
