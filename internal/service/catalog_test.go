package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreshnik/storefront/internal/models"
)

func TestListProducts_Pagination(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedProduct(t, r, "Орехи", 100, true)
	}
	seedProduct(t, r, "Черновик", 100, false)

	page, err := svc.ListProducts(ctx, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, int64(5), page.Total, "unpublished products are invisible")

	page, err = svc.ListProducts(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestGetProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, "Кешью жареный", 150, true)
	gallery := []models.ProductGalleryImage{
		{ProductID: p.ID, SortOrder: 2, URL: "/img/2.jpg"},
		{ProductID: p.ID, SortOrder: 1, URL: "/img/1.jpg"},
	}
	require.NoError(t, r.DB.Create(&gallery).Error)

	got, err := svc.GetProduct(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Кешью жареный", got.Title)
	require.Len(t, got.GalleryImages, 2)
	assert.Equal(t, 1, got.GalleryImages[0].SortOrder, "gallery sorted by sort order")

	_, err = svc.GetProduct(ctx, "no-such-slug")
	require.ErrorIs(t, err, ErrNotFound)

	hidden := seedProduct(t, r, "Черновик", 100, false)
	_, err = svc.GetProduct(ctx, hidden.Slug)
	require.ErrorIs(t, err, ErrNotFound, "unpublished products are invisible by slug too")
}
