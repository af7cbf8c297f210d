package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, store *SQLiteStore) *Category {
	t.Helper()
	cat := &Category{Name: "Printed", Slug: "printed"}
	require.NoError(t, store.CreateCategory(context.Background(), cat))
	return cat
}

func TestStore_ProductCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, store)

	p := &Product{
		CategoryID:  cat.ID,
		Name:        "Sunset Gradient",
		Slug:        "sunset-gradient",
		Description: "orange to purple fade",
		PriceCents:  14900,
		Active:      true,
	}
	require.NoError(t, store.CreateProduct(ctx, p))
	assert.NotZero(t, p.ID)

	bySlug, err := store.GetProductBySlug(ctx, "sunset-gradient")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
	assert.Equal(t, int64(14900), bySlug.PriceCents)
	assert.True(t, bySlug.Active)

	bySlug.PriceCents = 12900
	bySlug.Active = false
	require.NoError(t, store.UpdateProduct(ctx, bySlug))

	updated, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12900), updated.PriceCents)
	assert.False(t, updated.Active)

	require.NoError(t, store.DeleteProduct(ctx, p.ID))
	_, err = store.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListProducts_Filters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, store)

	other := &Category{Name: "Plain", Slug: "plain"}
	require.NoError(t, store.CreateCategory(ctx, other))

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateProduct(ctx, &Product{
			CategoryID: cat.ID,
			Name:       fmt.Sprintf("Printed %d", i),
			Slug:       fmt.Sprintf("printed-%d", i),
			PriceCents: 10000,
			Active:     i != 0, // printed-0 inactive
		}))
	}
	require.NoError(t, store.CreateProduct(ctx, &Product{
		CategoryID: other.ID,
		Name:       "Plain Black",
		Slug:       "plain-black",
		PriceCents: 9900,
		Active:     true,
	}))

	byCategory, err := store.ListProducts(ctx, ListProductsParams{CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	activeOnly, err := store.ListProducts(ctx, ListProductsParams{CategoryID: &cat.ID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, activeOnly, 2)

	limited, err := store.ListProducts(ctx, ListProductsParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_ProductImages(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, store)

	p := &Product{CategoryID: cat.ID, Name: "Marble", Slug: "marble", PriceCents: 11000, Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	img2 := &ProductImage{ProductID: p.ID, URL: "https://cdn.test/marble-2.jpg", Position: 2}
	img1 := &ProductImage{ProductID: p.ID, URL: "https://cdn.test/marble-1.jpg", Position: 1}
	require.NoError(t, store.AddProductImage(ctx, img2))
	require.NoError(t, store.AddProductImage(ctx, img1))

	images, err := store.ListProductImages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.test/marble-1.jpg", images[0].URL)

	require.NoError(t, store.DeleteProductImage(ctx, img1.ID))
	images, err = store.ListProductImages(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	// Deleting the product cascades to images
	require.NoError(t, store.DeleteProduct(ctx, p.ID))
	images, err = store.ListProductImages(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}
