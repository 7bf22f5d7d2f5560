package workshop

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPickingList(t *testing.T) *PickingList {
	t.Helper()
	list, err := NewPickingList("PK-2025-00001", uuid.New(), "Bifold wallet, dark brown")
	require.NoError(t, err)
	return list
}

func addPickingLine(t *testing.T, l *PickingList, code string, qty float64) *PickingListItem {
	t.Helper()
	item, err := l.AddItem(uuid.New(), "Material "+code, code, "sqft", uuid.New(), decimal.NewFromFloat(qty))
	require.NoError(t, err)
	return item
}

func TestNewPickingList(t *testing.T) {
	projectID := uuid.New()

	t.Run("creates open list", func(t *testing.T) {
		list, err := NewPickingList("PK-2025-00001", projectID, "Bifold wallet")
		require.NoError(t, err)
		require.NotNil(t, list)

		assert.Equal(t, "PK-2025-00001", list.PickNumber)
		assert.Equal(t, projectID, list.ProjectID)
		assert.Equal(t, PickingStatusOpen, list.Status)
		assert.Empty(t, list.Items)
	})

	t.Run("fails with empty pick number", func(t *testing.T) {
		_, err := NewPickingList("", projectID, "Bifold wallet")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Pick number cannot be empty")
	})

	t.Run("fails with nil project", func(t *testing.T) {
		_, err := NewPickingList("PK-2025-00001", uuid.Nil, "Bifold wallet")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Project ID cannot be empty")
	})
}

func TestPickingListAddItem(t *testing.T) {
	t.Run("adds material line", func(t *testing.T) {
		list := newTestPickingList(t)
		materialID := uuid.New()
		locationID := uuid.New()

		item, err := list.AddItem(materialID, "Veg tan shoulder", "LE-VEG-NAT", "sqft", locationID, decimal.NewFromFloat(2.5))
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, materialID, item.MaterialID)
		assert.Equal(t, locationID, item.LocationID)
		assert.True(t, item.PickedQuantity.IsZero())
	})

	t.Run("rejects duplicate material at same location", func(t *testing.T) {
		list := newTestPickingList(t)
		materialID := uuid.New()
		locationID := uuid.New()

		_, err := list.AddItem(materialID, "Veg tan shoulder", "LE-VEG-NAT", "sqft", locationID, decimal.NewFromInt(2))
		require.NoError(t, err)

		_, err = list.AddItem(materialID, "Veg tan shoulder", "LE-VEG-NAT", "sqft", locationID, decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already on the list")
	})

	t.Run("allows same material at different locations", func(t *testing.T) {
		list := newTestPickingList(t)
		materialID := uuid.New()

		_, err := list.AddItem(materialID, "Veg tan shoulder", "LE-VEG-NAT", "sqft", uuid.New(), decimal.NewFromInt(2))
		require.NoError(t, err)

		_, err = list.AddItem(materialID, "Veg tan shoulder", "LE-VEG-NAT", "sqft", uuid.New(), decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Equal(t, 2, list.ItemCount())
	})

	t.Run("rejects adding once picking started", func(t *testing.T) {
		list := newTestPickingList(t)
		item := addPickingLine(t, list, "LE-VEG-NAT", 5)

		_, err := list.Pick([]PickLine{{ItemID: item.ID, Quantity: decimal.NewFromInt(2)}})
		require.NoError(t, err)

		_, err = list.AddItem(uuid.New(), "Tiger thread", "TH-RITZA-08", "m", uuid.New(), decimal.NewFromInt(3))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "once picking has started")
	})
}

func TestPickingListPick(t *testing.T) {
	t.Run("picks everything at once", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 2.5)
		thread := addPickingLine(t, list, "TH-RITZA-08", 5)

		picked, err := list.Pick([]PickLine{
			{ItemID: leather.ID, Quantity: decimal.NewFromFloat(2.5)},
			{ItemID: thread.ID, Quantity: decimal.NewFromInt(5)},
		})
		require.NoError(t, err)
		require.Len(t, picked, 2)

		assert.Equal(t, PickingStatusPicked, list.Status)
		assert.NotNil(t, list.PickedAt)
		assert.Equal(t, "LE-VEG-NAT", picked[0].MaterialCode)
		assert.True(t, picked[0].Quantity.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("partial pick keeps list open", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 5)

		_, err := list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(3)}})
		require.NoError(t, err)

		assert.Equal(t, PickingStatusOpen, list.Status)
		assert.Nil(t, list.PickedAt)
		assert.True(t, list.Items[0].RemainingQuantity().Equal(decimal.NewFromInt(2)))

		_, err = list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(2)}})
		require.NoError(t, err)
		assert.Equal(t, PickingStatusPicked, list.Status)
	})

	t.Run("rejects over-pick", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 2)

		_, err := list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(3)}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than reserved")
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		list := newTestPickingList(t)
		addPickingLine(t, list, "LE-VEG-NAT", 2)

		_, err := list.Pick([]PickLine{{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("rejects empty pick lines", func(t *testing.T) {
		list := newTestPickingList(t)
		addPickingLine(t, list, "LE-VEG-NAT", 2)

		_, err := list.Pick(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects picking from a closed list", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 2)
		require.NoError(t, list.Cancel("Project on hold"))

		_, err := list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(1)}})
		require.Error(t, err)
	})
}

func TestPickingListCancel(t *testing.T) {
	t.Run("cancels an open list", func(t *testing.T) {
		list := newTestPickingList(t)
		addPickingLine(t, list, "LE-VEG-NAT", 2)

		require.NoError(t, list.Cancel("Project on hold"))
		assert.Equal(t, PickingStatusCancelled, list.Status)
		assert.Equal(t, "Project on hold", list.CancelReason)
		assert.NotNil(t, list.CancelledAt)
	})

	t.Run("cancels a partially picked list", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 5)

		_, err := list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(2)}})
		require.NoError(t, err)

		require.NoError(t, list.Cancel("Material defect found"))
		assert.True(t, list.Items[0].RemainingQuantity().Equal(decimal.NewFromInt(3)))
	})

	t.Run("requires a cancel reason", func(t *testing.T) {
		list := newTestPickingList(t)

		err := list.Cancel("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason is required")
	})

	t.Run("rejects cancelling a picked list", func(t *testing.T) {
		list := newTestPickingList(t)
		leather := addPickingLine(t, list, "LE-VEG-NAT", 2)

		_, err := list.Pick([]PickLine{{ItemID: leather.ID, Quantity: decimal.NewFromInt(2)}})
		require.NoError(t, err)

		err = list.Cancel("Too late")
		require.Error(t, err)
	})
}
