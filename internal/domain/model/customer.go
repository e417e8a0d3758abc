package model

import "time"

// 認証済みユーザー（user_id）と1対1の購入者
type Customer struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64  `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone   string `gorm:"type:varchar(20);not null" json:"phone"`
	Address string `gorm:"type:varchar(255);not null" json:"address"`

	//この購入者が出した注文（匿名注文は入らない）
	Orders []Order `gorm:"many2many:customer_orders;" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
