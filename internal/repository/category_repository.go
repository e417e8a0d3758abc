package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)

	//slugが既にあれば名前を更新
	Upsert(ctx context.Context, c model.Category) (model.Category, error)
}
