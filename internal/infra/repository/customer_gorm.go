package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, errors.Wrap(err, "find customer")
	}
	return c, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Customer{}, repo.ErrConflict
		}
		return model.Customer{}, errors.Wrap(err, "create customer")
	}
	return c, nil
}

// 中間テーブルに直接追加（既にあれば何もしない）
func (r *CustomerGormRepository) AppendOrder(ctx context.Context, customerID int64, orderID int64) error {
	err := r.db.WithContext(ctx).
		Table("customer_orders").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{
			"customer_id": customerID,
			"order_id":    orderID,
		}).Error
	if err != nil {
		return errors.Wrap(err, "append customer order")
	}
	return nil
}

func (r *CustomerGormRepository) ListOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN customer_orders ON customer_orders.order_id = orders.id").
		Where("customer_orders.customer_id = ?", customerID).
		Order("orders.id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, errors.Wrap(err, "list customer orders")
	}
	return orders, nil
}
