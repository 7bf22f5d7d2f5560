package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageLocation(t *testing.T) {
	t.Run("creates location successfully", func(t *testing.T) {
		location, err := NewStorageLocation("SHELF-A1", "Leather shelf A1", LocationKindShelf)

		require.NoError(t, err)
		assert.Equal(t, "SHELF-A1", location.Code)
		assert.Equal(t, LocationKindShelf, location.Kind)
		assert.True(t, location.IsActive())
	})

	t.Run("uppercases the code", func(t *testing.T) {
		location, err := NewStorageLocation("box-h3", "Hardware box 3", LocationKindBox)

		require.NoError(t, err)
		assert.Equal(t, "BOX-H3", location.Code)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewStorageLocation("X-1", "Somewhere", LocationKind("closet"))
		assert.Error(t, err)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewStorageLocation("", "Somewhere", LocationKindRoom)
		assert.Error(t, err)
	})
}

func TestStorageLocationUpdate(t *testing.T) {
	location, _ := NewStorageLocation("SHELF-A1", "Leather shelf A1", LocationKindShelf)

	require.NoError(t, location.Update("Leather shelf A1 (top)", "Vegetable tanned hides"))
	assert.Equal(t, "Leather shelf A1 (top)", location.Name)
	assert.Equal(t, "Vegetable tanned hides", location.Description)

	assert.Error(t, location.Update("", ""))
}

func TestStorageLocationActivation(t *testing.T) {
	location, _ := NewStorageLocation("DRAWER-T2", "Thread drawer 2", LocationKindDrawer)

	require.NoError(t, location.Deactivate())
	assert.False(t, location.IsActive())
	assert.Error(t, location.Deactivate())

	require.NoError(t, location.Activate())
	assert.True(t, location.IsActive())
	assert.Error(t, location.Activate())
}
