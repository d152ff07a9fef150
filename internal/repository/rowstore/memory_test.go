package rowstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, "Inventory", Row{"sku-1", "Keyboard", 5}))
	require.NoError(t, store.Append(ctx, "Inventory", Row{"sku-2", "Mouse", 9}))

	rows, err := store.ReadAll(ctx, "Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sku-1", rows[0][0])
	assert.Equal(t, "sku-2", rows[1][0])

	t.Run("ReturnedRowsAreCopies", func(t *testing.T) {
		rows[0][1] = "mutated"
		fresh, err := store.ReadAll(ctx, "Inventory")
		require.NoError(t, err)
		assert.Equal(t, "Keyboard", fresh[0][1])
	})

	t.Run("UnknownTableIsEmpty", func(t *testing.T) {
		rows, err := store.ReadAll(ctx, "Nope")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMemoryStoreFindAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, "Expenses", Row{"e1", "rent"}))
	require.NoError(t, store.Append(ctx, "Expenses", Row{"e2", "stock"}))

	require.NoError(t, store.FindAndDelete(ctx, "Expenses", "e1"))

	rows, err := store.ReadAll(ctx, "Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e2", rows[0][0])

	assert.ErrorIs(t, store.FindAndDelete(ctx, "Expenses", "e1"), ErrRowNotFound)
}

func TestMemoryStoreFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, "Inventory", Row{"sku-1", "Keyboard", 5}))

	t.Run("OverwritesCell", func(t *testing.T) {
		require.NoError(t, store.FindAndUpdate(ctx, "Inventory", "sku-1", 2, 3))
		rows, err := store.ReadAll(ctx, "Inventory")
		require.NoError(t, err)
		assert.Equal(t, 3, rows[0][2])
	})

	t.Run("GrowsShortRows", func(t *testing.T) {
		require.NoError(t, store.FindAndUpdate(ctx, "Inventory", "sku-1", 5, "extra"))
		rows, err := store.ReadAll(ctx, "Inventory")
		require.NoError(t, err)
		require.Len(t, rows[0], 6)
		assert.Equal(t, "extra", rows[0][5])
	})

	t.Run("UnknownIDIsRowNotFound", func(t *testing.T) {
		assert.ErrorIs(t, store.FindAndUpdate(ctx, "Inventory", "sku-missing", 2, 1), ErrRowNotFound)
	})

	t.Run("NegativeColumnIsRejected", func(t *testing.T) {
		assert.Error(t, store.FindAndUpdate(ctx, "Inventory", "sku-1", -1, 1))
	})
}
