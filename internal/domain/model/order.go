package model

import "time"

type OrderStatus string

// newだけがこのアプリで付与される。以降は管理側で進める
const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "is_ready"
	OrderStatusCompleted  OrderStatus = "completed"
)

type BuyingType string

const (
	BuyingTypeSelf     BuyingType = "self"
	BuyingTypeDelivery BuyingType = "delivery"
)

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//匿名注文はnil
	CustomerID *int64 `gorm:"index" json:"customer_id"`

	//注文元のカート（1カート1注文）
	CartID int64 `gorm:"not null;uniqueIndex" json:"cart_id"`

	FirstName   string      `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName    string      `gorm:"type:varchar(255);not null" json:"last_name"`
	PhoneNumber string      `gorm:"type:varchar(20);not null" json:"phone_number"`
	Address     string      `gorm:"type:varchar(1024)" json:"address"`
	Status      OrderStatus `gorm:"type:varchar(100);not null;default:'new';index" json:"status"`
	BuyingType  BuyingType  `gorm:"type:varchar(100);not null;default:'delivery'" json:"buying_type"`
	Comment     string      `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	//受け取り希望日
	OrderDate time.Time `gorm:"not null" json:"order_date"`
}
