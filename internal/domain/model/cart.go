package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 購入者1人（または匿名セッション1つ）につき未注文カートは1つ
type Cart struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID *int64 `gorm:"index" json:"owner_id"`

	ForAnonymousUser   bool    `gorm:"not null;default:false" json:"for_anonymous_user"`
	AnonymousSessionID *string `gorm:"type:varchar(64);index" json:"-"`

	//未注文の間だけ値が入る。uniqueで「1オーナー1カート」を保証する
	OpenOwnerKey *string `gorm:"type:varchar(100);uniqueIndex" json:"-"`

	InOrder bool `gorm:"not null;default:false;index" json:"in_order"`

	//明細から再計算される集計値
	TotalProducts int64           `gorm:"not null;default:0" json:"total_products"`
	FinalPrice    decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"final_price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Products []CartProduct `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"-"`
}

func CustomerCartKey(customerID int64) string {
	return fmt.Sprintf("customer:%d", customerID)
}

func AnonymousCartKey(sessionID string) string {
	return "anonymous:" + sessionID
}
