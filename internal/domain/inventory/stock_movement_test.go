package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()

	t.Run("creates receipt movement", func(t *testing.T) {
		movement, err := NewStockMovement(MovementTypeReceipt, ItemTypeMaterial, itemID, locationID,
			decimal.NewFromInt(50), decimal.NewFromFloat(1.80), "PU-2026-00001", "")

		require.NoError(t, err)
		assert.True(t, movement.IsInbound())
		assert.True(t, movement.Value().Equal(decimal.NewFromInt(90)))
		assert.Equal(t, "PU-2026-00001", movement.Reference)
	})

	t.Run("creates outbound movement with negative quantity", func(t *testing.T) {
		movement, err := NewStockMovement(MovementTypeSale, ItemTypeProduct, itemID, locationID,
			decimal.NewFromInt(-2), decimal.NewFromInt(40), "SA-2026-00003", "")

		require.NoError(t, err)
		assert.False(t, movement.IsInbound())
		assert.True(t, movement.Value().Equal(decimal.NewFromInt(-80)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockMovement(MovementTypeAdjustment, ItemTypeMaterial, itemID, locationID,
			decimal.Zero, decimal.Zero, "", "recount")
		assert.Error(t, err)
	})

	t.Run("rejects invalid movement type", func(t *testing.T) {
		_, err := NewStockMovement(MovementType("theft"), ItemTypeMaterial, itemID, locationID,
			decimal.NewFromInt(-1), decimal.Zero, "", "")
		assert.Error(t, err)
	})

	t.Run("rejects nil item or location", func(t *testing.T) {
		_, err := NewStockMovement(MovementTypeReceipt, ItemTypeMaterial, uuid.Nil, locationID,
			decimal.NewFromInt(1), decimal.Zero, "", "")
		assert.Error(t, err)

		_, err = NewStockMovement(MovementTypeReceipt, ItemTypeMaterial, itemID, uuid.Nil,
			decimal.NewFromInt(1), decimal.Zero, "", "")
		assert.Error(t, err)
	})
}
