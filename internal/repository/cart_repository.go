package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	// open_owner_keyで未注文カートを探し、無ければseedから作る
	GetOrCreateOpen(ctx context.Context, seed model.Cart) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	// 行ロック付きで取得（sqliteでは通常の取得）
	FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error)
	UpdateTotals(ctx context.Context, cartID int64, totalProducts int64, finalPrice decimal.Decimal) error
	// in_order=trueにしてopen_owner_keyを外す。未注文でなければErrNotFound
	MarkInOrder(ctx context.Context, cartID int64) error
}
