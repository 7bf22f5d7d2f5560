package workshop

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolList(t *testing.T) {
	t.Run("creates empty list for project", func(t *testing.T) {
		projectID := uuid.New()
		list, err := NewToolList(projectID)
		require.NoError(t, err)

		assert.Equal(t, projectID, list.ProjectID)
		assert.Empty(t, list.Items)
		assert.False(t, list.IsReady())
	})

	t.Run("fails with nil project", func(t *testing.T) {
		_, err := NewToolList(uuid.Nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Project ID cannot be empty")
	})
}

func TestToolListAddRemove(t *testing.T) {
	t.Run("adds tools", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)

		item, err := list.AddTool("Stitching pony", "")
		require.NoError(t, err)
		assert.Equal(t, "Stitching pony", item.ToolName)
		assert.False(t, item.Prepared)

		_, err = list.AddTool("Pricking irons 3.38mm", "8 tooth and 2 tooth")
		require.NoError(t, err)
		assert.Equal(t, 2, list.ItemCount())
	})

	t.Run("rejects duplicate tool", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)

		_, err = list.AddTool("Round knife", "")
		require.NoError(t, err)

		_, err = list.AddTool("Round knife", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already on the list")
	})

	t.Run("rejects empty tool name", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)

		_, err = list.AddTool("", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Tool name cannot be empty")
	})

	t.Run("removes tool", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)
		item, err := list.AddTool("Edge beveler #2", "")
		require.NoError(t, err)

		require.NoError(t, list.RemoveTool(item.ID))
		assert.Equal(t, 0, list.ItemCount())
	})

	t.Run("fails removing unknown tool", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)

		err = list.RemoveTool(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestToolListPreparation(t *testing.T) {
	t.Run("checks off tools until ready", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)
		pony, err := list.AddTool("Stitching pony", "")
		require.NoError(t, err)
		knife, err := list.AddTool("Round knife", "")
		require.NoError(t, err)

		require.NoError(t, list.MarkPrepared(pony.ID))
		assert.False(t, list.IsReady())

		require.NoError(t, list.MarkPrepared(knife.ID))
		assert.True(t, list.IsReady())
	})

	t.Run("unchecking makes the list not ready", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)
		pony, err := list.AddTool("Stitching pony", "")
		require.NoError(t, err)

		require.NoError(t, list.MarkPrepared(pony.ID))
		assert.True(t, list.IsReady())

		require.NoError(t, list.MarkUnprepared(pony.ID))
		assert.False(t, list.IsReady())
	})

	t.Run("empty list is never ready", func(t *testing.T) {
		list, err := NewToolList(uuid.New())
		require.NoError(t, err)
		assert.False(t, list.IsReady())
	})
}
