package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupOrderTestDB(t))

	older, err := catalog.NewProduct("Linen Shirt", decimal.NewFromInt(2500))
	require.NoError(t, err)
	older.CreatedAt = time.Now().Add(-time.Hour)
	older.Describe("Men", "Breathable linen", "blue")
	older.AddImages("https://cdn.example.com/a.jpg")
	require.NoError(t, repo.Save(ctx, older))

	newer, err := catalog.NewProduct("Silk Scarf", decimal.RequireFromString("799.50"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newer))

	t.Run("finds by id with images", func(t *testing.T) {
		found, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", found.Name)
		assert.Equal(t, "blue", found.Color)
		assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, found.Images)
		assert.False(t, found.SoldOut)
	})

	t.Run("lists newest first", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Silk Scarf", all[0].Name)
		assert.Empty(t, all[0].Images)
	})

	t.Run("save updates existing product", func(t *testing.T) {
		newer.SetSoldOut(true)
		newer.AddImages("https://cdn.example.com/b.jpg")
		require.NoError(t, repo.Save(ctx, newer))

		found, err := repo.FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.True(t, found.SoldOut)
		assert.Len(t, found.Images, 1)
	})

	t.Run("delete removes product", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, newer.ID))
		_, err := repo.FindByID(ctx, newer.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("delete unknown product", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, "Product not found", err.Error())
	})
}
