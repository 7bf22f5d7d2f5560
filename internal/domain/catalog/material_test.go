package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterial(t *testing.T) {
	t.Run("creates material successfully", func(t *testing.T) {
		material, err := NewMaterial("LE-VEG-NAT", "Vegetable tanned shoulder, natural", MaterialTypeLeather, "dm2")

		require.NoError(t, err)
		assert.Equal(t, "LE-VEG-NAT", material.Code)
		assert.Equal(t, MaterialTypeLeather, material.Type)
		assert.Equal(t, "dm2", material.Unit)
		assert.Equal(t, MaterialStatusActive, material.Status)
		assert.True(t, material.PurchasePrice.IsZero())
		assert.True(t, material.IsLeather())
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		material, err := NewMaterial("X-1", "Mystery", MaterialType("fabric"), "m")

		assert.Error(t, err)
		assert.Nil(t, material)
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		material, err := NewMaterial("X-1", "Rivets", MaterialTypeHardware, "")

		assert.Error(t, err)
		assert.Nil(t, material)
	})
}

func TestMaterialSetPurchasePrice(t *testing.T) {
	material, _ := NewMaterial("LE-VEG-NAT", "Vegetable tanned shoulder", MaterialTypeLeather, "dm2")

	t.Run("sets price", func(t *testing.T) {
		err := material.SetPurchasePrice(decimal.NewFromFloat(1.85))

		require.NoError(t, err)
		assert.True(t, material.PurchasePrice.Equal(decimal.NewFromFloat(1.85)))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		err := material.SetPurchasePrice(decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestMaterialSetMinStock(t *testing.T) {
	material, _ := NewMaterial("HW-BUCKLE-30", "Roller buckle 30mm", MaterialTypeHardware, "pcs")

	require.NoError(t, material.SetMinStock(decimal.NewFromInt(20)))
	assert.True(t, material.MinStock.Equal(decimal.NewFromInt(20)))

	assert.Error(t, material.SetMinStock(decimal.NewFromInt(-5)))
}

func TestMaterialPreferredSupplier(t *testing.T) {
	material, _ := NewMaterial("TH-RITZA-08", "Ritza tiger thread 0.8mm", MaterialTypeThread, "m")
	supplierID := uuid.New()

	t.Run("sets preferred supplier", func(t *testing.T) {
		err := material.SetPreferredSupplier(supplierID)

		require.NoError(t, err)
		require.NotNil(t, material.PreferredSupplierID)
		assert.Equal(t, supplierID, *material.PreferredSupplierID)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		err := material.SetPreferredSupplier(uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("clears preferred supplier", func(t *testing.T) {
		material.ClearPreferredSupplier()
		assert.Nil(t, material.PreferredSupplierID)
	})
}

func TestMaterialLeatherAttributes(t *testing.T) {
	t.Run("sets attributes on leather", func(t *testing.T) {
		material, _ := NewMaterial("LE-VEG-NAT", "Vegetable tanned shoulder", MaterialTypeLeather, "dm2")

		err := material.SetLeatherAttributes(decimal.NewFromFloat(2.2), "natural", "vegetable tanned")

		require.NoError(t, err)
		require.NotNil(t, material.ThicknessMM)
		assert.True(t, material.ThicknessMM.Equal(decimal.NewFromFloat(2.2)))
		assert.Equal(t, "natural", material.Color)
		assert.Equal(t, "vegetable tanned", material.Finish)
	})

	t.Run("rejects attributes on non-leather", func(t *testing.T) {
		material, _ := NewMaterial("HW-RIVET-9", "Copper rivet 9mm", MaterialTypeHardware, "pcs")

		err := material.SetLeatherAttributes(decimal.NewFromFloat(2.2), "copper", "")
		assert.Error(t, err)
	})

	t.Run("rejects implausible thickness", func(t *testing.T) {
		material, _ := NewMaterial("LE-CHROME-BLK", "Chrome tanned side, black", MaterialTypeLeather, "dm2")

		err := material.SetLeatherAttributes(decimal.NewFromInt(25), "black", "chrome tanned")
		assert.Error(t, err)
	})
}

func TestMaterialDiscontinue(t *testing.T) {
	material, _ := NewMaterial("SU-DYE-BRN", "Leather dye, brown", MaterialTypeSupplies, "ml")

	require.NoError(t, material.Discontinue())
	assert.False(t, material.IsActive())

	assert.Error(t, material.Discontinue())

	require.NoError(t, material.Reactivate())
	assert.True(t, material.IsActive())
}
