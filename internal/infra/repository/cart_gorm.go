package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// open_owner_keyの未注文カートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateOpen(ctx context.Context, seed model.Cart) (model.Cart, error) {
	if seed.OpenOwnerKey == nil || *seed.OpenOwnerKey == "" {
		return model.Cart{}, errors.New("open owner key is required")
	}
	key := *seed.OpenOwnerKey
	db := r.db.WithContext(ctx)

	var cart model.Cart
	findErr := db.Where("open_owner_key = ?", key).First(&cart).Error
	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, errors.Wrap(findErr, "find open cart")
	}

	// 無ければ作る。同時に作られた場合はON CONFLICTで何もしない
	newCart := model.Cart{
		OwnerID:            seed.OwnerID,
		ForAnonymousUser:   seed.ForAnonymousUser,
		AnonymousSessionID: seed.AnonymousSessionID,
		OpenOwnerKey:       &key,
		CreatedAt:          time.Now(),
		FinalPrice:         decimal.Zero,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_owner_key"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&newCart)
	if res.Error != nil {
		return model.Cart{}, errors.Wrap(res.Error, "create open cart")
	}
	if res.RowsAffected == 1 {
		return newCart, nil
	}

	//先に作られた方を返す
	if err := db.Where("open_owner_key = ?", key).First(&cart).Error; err != nil {
		return model.Cart{}, errors.Wrap(err, "reload open cart")
	}
	return cart, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	return r.findByID(r.db.WithContext(ctx), cartID)
}

// 行ロックして取得
func (r *CartGormRepository) FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error) {
	return r.findByID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), cartID)
}

func (r *CartGormRepository) findByID(db *gorm.DB, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := db.Where("id = ?", cartID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, errors.Wrap(err, "find cart")
	}
	return cart, nil
}

// 集計値を保存
func (r *CartGormRepository) UpdateTotals(ctx context.Context, cartID int64, totalProducts int64, finalPrice decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_products": totalProducts,
			"final_price":    finalPrice,
		})

	if res.Error != nil {
		return errors.Wrap(res.Error, "update cart totals")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文済みにする（以降このオーナーの新しいカートが作れる）
func (r *CartGormRepository) MarkInOrder(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ? AND in_order = ?", cartID, false).
		Updates(map[string]interface{}{
			"in_order":       true,
			"open_owner_key": nil,
		})

	if res.Error != nil {
		return errors.Wrap(res.Error, "mark cart in order")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
