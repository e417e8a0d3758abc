package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// slugで商品を取得（カテゴリ付き）
func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, errors.Wrap(err, "find product")
	}
	return p, nil
}

// カテゴリ内の在庫ありの商品
func (r *ProductGormRepository) ListInStockByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND in_stock = ?", categoryID, true).
		Order("id asc").
		Find(&products).Error; err != nil {
		return []model.Product{}, errors.Wrap(err, "list products by category")
	}
	return products, nil
}

// slugの部分一致で在庫ありの商品を数件
func (r *ProductGormRepository) ListFeatured(ctx context.Context, q repo.FeaturedQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).
		Preload("Category").
		Where("in_stock = ?", true)

	if s := strings.TrimSpace(q.SlugContains); s != "" {
		tx = tx.Where("slug LIKE ?", "%"+s+"%")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if err := tx.Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, errors.Wrap(err, "list featured products")
	}
	return products, nil
}

// slugをキーに作成/更新
func (r *ProductGormRepository) Upsert(ctx context.Context, p model.Product) (model.Product, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category_id", "title", "image", "description", "size", "price", "in_stock",
		}),
	}).Omit(clause.Associations).Create(&p).Error
	if err != nil {
		return model.Product{}, errors.Wrap(err, "upsert product")
	}

	return r.FindBySlug(ctx, p.Slug)
}
