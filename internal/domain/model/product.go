package model

import "github.com/shopspring/decimal"

// 商品画像の制約（登録時にチェック、DBでは強制しない）
const (
	ProductImageMaxSize   = 6 * 1024 * 1024
	ProductImageMinPixels = 400
	ProductImageMaxPixels = 4000
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64           `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Image       string          `gorm:"type:varchar(255);not null" json:"image"`
	Description *string         `gorm:"type:text" json:"description"`
	Size        string          `gorm:"type:varchar(25);not null" json:"size"`
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"price"`
	InStock     bool            `gorm:"not null;default:false;index" json:"in_stock"`
}
