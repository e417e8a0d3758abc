package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartProductRepository interface {
	// Productをpreloadして返す
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartProduct, error)
	// 同一商品が既にあれば数量はそのまま（created=false）
	GetOrCreate(ctx context.Context, cartID int64, productID int64, unitPrice decimal.Decimal) (item model.CartProduct, created bool, err error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartProduct, error)
	UpdateQty(ctx context.Context, cartProductID int64, qty int64, finalPrice decimal.Decimal) error
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
