package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShoppingList(t *testing.T) *ShoppingList {
	t.Helper()
	list, err := NewShoppingList("Restock week 34")
	require.NoError(t, err)
	return list
}

func TestNewShoppingList(t *testing.T) {
	t.Run("creates open list", func(t *testing.T) {
		list, err := NewShoppingList("Restock week 34")
		require.NoError(t, err)
		require.NotNil(t, list)

		assert.Equal(t, "Restock week 34", list.Name)
		assert.Equal(t, ShoppingListStatusOpen, list.Status)
		assert.Empty(t, list.Items)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewShoppingList("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestShoppingListAddItem(t *testing.T) {
	t.Run("adds material line", func(t *testing.T) {
		list := newTestShoppingList(t)
		materialID := uuid.New()
		supplierID := uuid.New()

		item, err := list.AddItem(materialID, "Tiger thread 0.8mm", "TH-RITZA-08", "spool", decimal.NewFromInt(3), &supplierID)
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, materialID, item.MaterialID)
		assert.Equal(t, supplierID, *item.SupplierID)
		assert.Equal(t, 1, list.ItemCount())
	})

	t.Run("merges quantity for existing material", func(t *testing.T) {
		list := newTestShoppingList(t)
		materialID := uuid.New()

		_, err := list.AddItem(materialID, "Tiger thread 0.8mm", "TH-RITZA-08", "spool", decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		item, err := list.AddItem(materialID, "Tiger thread 0.8mm", "TH-RITZA-08", "spool", decimal.NewFromInt(2), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, list.ItemCount())
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		list := newTestShoppingList(t)

		_, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.Zero, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Quantity must be positive")
	})

	t.Run("fails on a closed list", func(t *testing.T) {
		list := newTestShoppingList(t)
		_, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		require.NoError(t, list.MarkOrdered())

		_, err = list.AddItem(uuid.New(), "Edge paint", "SU-EDGE-BLK", "bottle", decimal.NewFromInt(2), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed shopping list")
	})
}

func TestShoppingListItemMutations(t *testing.T) {
	t.Run("updates item quantity", func(t *testing.T) {
		list := newTestShoppingList(t)
		item, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		require.NoError(t, list.UpdateItemQuantity(item.ID, decimal.NewFromInt(6)))
		assert.True(t, list.Items[0].Quantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("removes item", func(t *testing.T) {
		list := newTestShoppingList(t)
		item, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		require.NoError(t, list.RemoveItem(item.ID))
		assert.Equal(t, 0, list.ItemCount())
	})

	t.Run("fails for unknown item", func(t *testing.T) {
		list := newTestShoppingList(t)

		err := list.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("assigns and clears supplier", func(t *testing.T) {
		list := newTestShoppingList(t)
		item, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		supplierID := uuid.New()
		require.NoError(t, list.Items[0].SetSupplier(supplierID))
		assert.Equal(t, supplierID, *list.Items[0].SupplierID)

		list.Items[0].ClearSupplier()
		assert.Nil(t, list.Items[0].SupplierID)
		_ = item
	})
}

func TestShoppingListLifecycle(t *testing.T) {
	t.Run("marks list ordered then done", func(t *testing.T) {
		list := newTestShoppingList(t)
		_, err := list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "spool", decimal.NewFromInt(3), nil)
		require.NoError(t, err)

		require.NoError(t, list.MarkOrdered())
		assert.Equal(t, ShoppingListStatusOrdered, list.Status)
		assert.NotNil(t, list.OrderedAt)

		require.NoError(t, list.MarkDone())
		assert.Equal(t, ShoppingListStatusDone, list.Status)
		assert.NotNil(t, list.DoneAt)
	})

	t.Run("closes an open list directly", func(t *testing.T) {
		list := newTestShoppingList(t)

		require.NoError(t, list.MarkDone())
		assert.Equal(t, ShoppingListStatusDone, list.Status)
	})

	t.Run("rejects ordering an empty list", func(t *testing.T) {
		list := newTestShoppingList(t)

		err := list.MarkOrdered()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty shopping list")
	})

	t.Run("rejects reopening a done list", func(t *testing.T) {
		list := newTestShoppingList(t)
		require.NoError(t, list.MarkDone())

		err := list.MarkOrdered()
		require.Error(t, err)
	})
}

func TestShoppingListItemsBySupplier(t *testing.T) {
	list := newTestShoppingList(t)
	hofmann := uuid.New()
	weber := uuid.New()

	_, err := list.AddItem(uuid.New(), "Veg tan shoulder", "LE-VEG-NAT", "sqft", decimal.NewFromInt(15), &hofmann)
	require.NoError(t, err)
	_, err = list.AddItem(uuid.New(), "Bridle leather", "LE-BRIDLE-BLK", "sqft", decimal.NewFromInt(10), &hofmann)
	require.NoError(t, err)
	_, err = list.AddItem(uuid.New(), "Solid brass buckle 30mm", "HW-BUCKLE-30", "pcs", decimal.NewFromInt(40), &weber)
	require.NoError(t, err)
	_, err = list.AddItem(uuid.New(), "Edge paint black", "SU-EDGE-BLK", "bottle", decimal.NewFromInt(2), nil)
	require.NoError(t, err)

	groups := list.ItemsBySupplier()

	require.Len(t, groups, 3)
	assert.Len(t, groups[hofmann], 2)
	assert.Len(t, groups[weber], 1)
	assert.Len(t, groups[uuid.Nil], 1)
}
