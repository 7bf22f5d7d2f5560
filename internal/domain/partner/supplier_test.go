package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("creates supplier successfully", func(t *testing.T) {
		supplier, err := NewSupplier("SU-0001", "Gerberei Hofmann")

		require.NoError(t, err)
		assert.NotNil(t, supplier)
		assert.Equal(t, "SU-0001", supplier.Code)
		assert.Equal(t, "Gerberei Hofmann", supplier.Name)
		assert.Equal(t, SupplierStatusActive, supplier.Status)
		assert.True(t, supplier.MinOrderValue.IsZero())
		assert.False(t, supplier.HasPaymentTerms())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		supplier, err := NewSupplier("", "Gerberei Hofmann")

		assert.Error(t, err)
		assert.Nil(t, supplier)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		supplier, err := NewSupplier("SU-0001", "")

		assert.Error(t, err)
		assert.Nil(t, supplier)
	})
}

func TestSupplierSetContact(t *testing.T) {
	supplier, _ := NewSupplier("SU-0001", "Gerberei Hofmann")

	err := supplier.SetContact("Karl Hofmann", "+49 89 123456", "verkauf@hofmann.example", "hofmann.example")

	require.NoError(t, err)
	assert.Equal(t, "Karl Hofmann", supplier.ContactName)
	assert.Equal(t, "+49 89 123456", supplier.Phone)
	assert.Equal(t, "verkauf@hofmann.example", supplier.Email)
	assert.Equal(t, "hofmann.example", supplier.Website)
}

func TestSupplierSetPaymentTerms(t *testing.T) {
	supplier, _ := NewSupplier("SU-0001", "Gerberei Hofmann")

	t.Run("sets valid payment terms", func(t *testing.T) {
		err := supplier.SetPaymentTerms(30, decimal.NewFromInt(150))

		require.NoError(t, err)
		assert.Equal(t, 30, supplier.PaymentDays)
		assert.True(t, supplier.MinOrderValue.Equal(decimal.NewFromInt(150)))
		assert.True(t, supplier.HasPaymentTerms())
	})

	t.Run("rejects negative payment days", func(t *testing.T) {
		err := supplier.SetPaymentTerms(-1, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects payment days over a year", func(t *testing.T) {
		err := supplier.SetPaymentTerms(400, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative minimum order value", func(t *testing.T) {
		err := supplier.SetPaymentTerms(30, decimal.NewFromInt(-10))
		assert.Error(t, err)
	})
}

func TestSupplierActivateDeactivate(t *testing.T) {
	supplier, _ := NewSupplier("SU-0001", "Gerberei Hofmann")

	require.NoError(t, supplier.Deactivate())
	assert.False(t, supplier.IsActive())

	require.NoError(t, supplier.Activate())
	assert.True(t, supplier.IsActive())

	assert.Error(t, supplier.Activate())
}
