package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartProductGormRepository(db *gorm.DB) *CartProductGormRepository {
	return &CartProductGormRepository{db: db}
}

// カート明細を一覧取得（商品付き）
func (r *CartProductGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartProduct, error) {
	var items []model.CartProduct

	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartProduct{}, errors.Wrap(err, "list cart products")
	}

	return items, nil
}

// 明細が無ければqty=1で作る。既存なら数量は変えない
func (r *CartProductGormRepository) GetOrCreate(ctx context.Context, cartID int64, productID int64, unitPrice decimal.Decimal) (model.CartProduct, bool, error) {
	db := r.db.WithContext(ctx)

	item := model.CartProduct{
		CartID:     cartID,
		ProductID:  productID,
		Qty:        1,
		FinalPrice: model.LinePrice(unitPrice, 1),
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&item)
	if res.Error != nil {
		return model.CartProduct{}, false, errors.Wrap(res.Error, "create cart product")
	}
	if res.RowsAffected == 1 {
		return item, true, nil
	}

	existing, err := r.FindByCartAndProduct(ctx, cartID, productID)
	if err != nil {
		return model.CartProduct{}, false, err
	}
	return existing, false, nil
}

func (r *CartProductGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartProduct, error) {
	var item model.CartProduct

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartProduct{}, errors.Wrap(err, "find cart product")
	}
	return item, nil
}

// 数量と小計を更新
func (r *CartProductGormRepository) UpdateQty(ctx context.Context, cartProductID int64, qty int64, finalPrice decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartProduct{}).
		Where("id = ?", cartProductID).
		Updates(map[string]interface{}{
			"qty":         qty,
			"final_price": finalPrice,
		})

	if res.Error != nil {
		return errors.Wrap(res.Error, "update cart product qty")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartProductGormRepository) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartProduct{})

	if res.Error != nil {
		return errors.Wrap(res.Error, "delete cart product")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
