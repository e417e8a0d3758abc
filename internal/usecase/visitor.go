package usecase

import (
	"net/http"

	"storefront/internal/domain/model"
)

// 来訪者の識別子。ログイン済みならUserID、未ログインならSessionID
type Visitor struct {
	UserID    int64
	SessionID string
}

func (v Visitor) IsAuthenticated() bool {
	return v.UserID > 0
}

// カート作成時の初期値（オーナー情報とopen_owner_key）
func cartSeed(v Visitor, customer *model.Customer) (model.Cart, error) {
	if customer != nil {
		key := model.CustomerCartKey(customer.ID)
		ownerID := customer.ID
		return model.Cart{OwnerID: &ownerID, OpenOwnerKey: &key}, nil
	}
	if v.SessionID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "visitor session required")
	}
	key := model.AnonymousCartKey(v.SessionID)
	session := v.SessionID
	return model.Cart{
		ForAnonymousUser:   true,
		AnonymousSessionID: &session,
		OpenOwnerKey:       &key,
	}, nil
}
