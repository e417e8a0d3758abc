package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 購入者の保存・取得を約束
type CustomerRepository interface {
	//user_idから購入者を1件取得
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)
	//新規作成（user_id重複はErrConflict）
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	//customer_ordersに注文を追加
	AppendOrder(ctx context.Context, customerID int64, orderID int64) error
	//customer_orders経由の注文一覧（新しい順）
	ListOrders(ctx context.Context, customerID int64) ([]model.Order, error)
}
