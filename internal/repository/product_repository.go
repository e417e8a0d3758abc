package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/cockroachdb/errors"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（同時作成など）
var ErrConflict = errors.New("conflict")

// 注目商品の条件
type FeaturedQuery struct {
	SlugContains string
	Limit        int
}

// 商品の読み取りとカタログ取込での作成を約束。
type ProductRepository interface {
	FindBySlug(ctx context.Context, slug string) (model.Product, error)
	ListInStockByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	ListFeatured(ctx context.Context, q FeaturedQuery) ([]model.Product, error)

	//slugが既にあれば更新
	Upsert(ctx context.Context, p model.Product) (model.Product, error)
}
