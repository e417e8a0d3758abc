package repository_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db/dbtest"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductGorm_ListFeatured(t *testing.T) {
	ctx := context.Background()
	gormDB := dbtest.Open(t)
	cat := dbtest.SeedCategory(t, gormDB, "Pants", "pants")

	dbtest.SeedProduct(t, gormDB, cat.ID, "cargo-pants", "30.00")
	dbtest.SeedProduct(t, gormDB, cat.ID, "jeans", "40.00")
	out := dbtest.SeedProduct(t, gormDB, cat.ID, "sold-out-pants", "20.00")
	require.NoError(t, gormDB.Model(&model.Product{}).Where("id = ?", out.ID).Update("in_stock", false).Error)
	for _, slug := range []string{"pan-1", "pan-2", "pan-3", "pan-4", "pan-5", "pan-6"} {
		dbtest.SeedProduct(t, gormDB, cat.ID, slug, "1.00")
	}

	r := infraRepo.NewProductGormRepository(gormDB)

	got, err := r.ListFeatured(ctx, repo.FeaturedQuery{SlugContains: "pan", Limit: 6})
	require.NoError(t, err)
	assert.Len(t, got, 6)
	for _, p := range got {
		assert.Contains(t, p.Slug, "pan")
		assert.True(t, p.InStock)
		assert.NotEqual(t, "jeans", p.Slug)
	}
	assert.Equal(t, "cargo-pants", got[0].Slug)
}

func TestProductGorm_ListInStockByCategory(t *testing.T) {
	ctx := context.Background()
	gormDB := dbtest.Open(t)
	pants := dbtest.SeedCategory(t, gormDB, "Pants", "pants")
	shirts := dbtest.SeedCategory(t, gormDB, "Shirts", "shirts")

	dbtest.SeedProduct(t, gormDB, pants.ID, "cargo", "30.00")
	hidden := dbtest.SeedProduct(t, gormDB, pants.ID, "old", "30.00")
	require.NoError(t, gormDB.Model(&model.Product{}).Where("id = ?", hidden.ID).Update("in_stock", false).Error)
	dbtest.SeedProduct(t, gormDB, shirts.ID, "tee", "10.00")

	got, err := infraRepo.NewProductGormRepository(gormDB).ListInStockByCategory(ctx, pants.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cargo", got[0].Slug)
}

func TestProductGorm_Upsert_UpdatesBySlug(t *testing.T) {
	ctx := context.Background()
	gormDB := dbtest.Open(t)
	cat := dbtest.SeedCategory(t, gormDB, "Pants", "pants")
	r := infraRepo.NewProductGormRepository(gormDB)

	first, err := r.Upsert(ctx, model.Product{
		CategoryID: cat.ID, Title: "Cargo", Slug: "cargo", Image: "cargo.png",
		Size: "L", Price: decimal.RequireFromString("30.00"), InStock: true,
	})
	require.NoError(t, err)

	second, err := r.Upsert(ctx, model.Product{
		CategoryID: cat.ID, Title: "Cargo v2", Slug: "cargo", Image: "cargo.png",
		Size: "XL", Price: decimal.RequireFromString("35.50"), InStock: true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Cargo v2", second.Title)
	assert.Equal(t, "35.50", second.Price.StringFixed(2))
	require.NotNil(t, second.Category)
	assert.Equal(t, "pants", second.Category.Slug)
}

func TestCategoryGorm_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewCategoryGormRepository(dbtest.Open(t))

	_, err := r.Upsert(ctx, model.Category{Name: "Pants", Slug: "pants"})
	require.NoError(t, err)
	renamed, err := r.Upsert(ctx, model.Category{Name: "Trousers", Slug: "pants"})
	require.NoError(t, err)
	assert.Equal(t, "Trousers", renamed.Name)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = r.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
