package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/models"
)

func TestFavoriteAddIsIdempotent(t *testing.T) {
	robe := testProduct("Robe", 15000, 2)
	favs := &fakeFavorites{}
	svc := NewFavoriteService(favs, &fakeProducts{products: []models.Product{robe}}, nil)

	first, err := svc.Add(context.Background(), "u1", robe.ID)
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), "u1", robe.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, favs.creates)

	ok, err := svc.IsFavorited(context.Background(), "u1", robe.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFavoriteAddRequiresActiveProduct(t *testing.T) {
	retired := testProduct("Retired", 1000, 1)
	retired.IsActive = false
	favs := &fakeFavorites{}
	svc := NewFavoriteService(favs, &fakeProducts{products: []models.Product{retired}}, nil)

	_, err := svc.Add(context.Background(), "u1", retired.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Add(context.Background(), "u1", uuid.New())
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, favs.creates)
}

func TestFavoriteRemove(t *testing.T) {
	robe := testProduct("Robe", 15000, 2)
	svc := NewFavoriteService(&fakeFavorites{}, &fakeProducts{products: []models.Product{robe}}, nil)

	_, err := svc.Add(context.Background(), "u1", robe.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), "u1", robe.ID))

	ok, err := svc.IsFavorited(context.Background(), "u1", robe.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoriteProductsSkipsRetiredProducts(t *testing.T) {
	robe := testProduct("Robe", 15000, 2)
	sac := testProduct("Sac", 42000, 0)
	products := &fakeProducts{products: []models.Product{robe, sac}}
	catalogSvc := NewCatalogService(products, nil, config.CatalogConfig{DefaultListLimit: 24, MaxListLimit: 100})
	svc := NewFavoriteService(&fakeFavorites{}, products, catalogSvc)

	for _, id := range []uuid.UUID{robe.ID, sac.ID} {
		_, err := svc.Add(context.Background(), "u1", id)
		require.NoError(t, err)
	}
	products.products[0].IsActive = false

	views, err := svc.Products(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, sac.ID, views[0].ID)
	assert.False(t, views[0].InStock)

	ids, err := svc.ProductIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{sac.ID, robe.ID}, ids)
}
