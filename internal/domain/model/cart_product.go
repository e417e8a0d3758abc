package model

import "github.com/shopspring/decimal"

// カートの明細
// (cart_id, product_id) はユニーク
type CartProduct struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     int64           `gorm:"not null;uniqueIndex:idx_cart_products_cart_product" json:"cart_id"`
	ProductID  int64           `gorm:"not null;uniqueIndex:idx_cart_products_cart_product;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Qty        int64           `gorm:"not null;default:1" json:"qty"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"final_price"`
}

// 数量の上限（qty/total_productsはint4相当）
const MaxQty int64 = 2147483647

// 数量×単価
func LinePrice(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}
