package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/cockroachdb/errors"
)

// 認証済みユーザーと購入者の対応
type CustomerUsecase struct {
	customers repo.CustomerRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

type RegisterCustomerInput struct {
	UserID  int64
	Phone   string
	Address string
}

// Resolve はuser_idの購入者を返す。いなければ404
func (u *CustomerUsecase) Resolve(ctx context.Context, userID int64) (model.Customer, error) {
	if userID <= 0 {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.customers.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return model.Customer{}, internalError(err)
	}
	return c, nil
}

// Register は外部の会員登録フローの代わり（CLIから使う）
func (u *CustomerUsecase) Register(ctx context.Context, in RegisterCustomerInput) (model.Customer, error) {
	fields := map[string]string{}
	if in.UserID <= 0 {
		fields["user_id"] = "must be positive"
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" || len(phone) > 20 {
		fields["phone"] = "required, at most 20 characters"
	}
	address := strings.TrimSpace(in.Address)
	if address == "" || len(address) > 255 {
		fields["address"] = "required, at most 255 characters"
	}
	if len(fields) > 0 {
		return model.Customer{}, validationError(fields, "")
	}

	c, err := u.customers.Create(ctx, model.Customer{
		UserID:  in.UserID,
		Phone:   phone,
		Address: address,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Customer{}, NewHTTPError(http.StatusConflict, "customer already exists")
	}
	if err != nil {
		return model.Customer{}, internalError(err)
	}
	return c, nil
}

// ListOrders は購入者の注文履歴（新しい順）
func (u *CustomerUsecase) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	c, err := u.Resolve(ctx, userID)
	if err != nil {
		return []model.Order{}, err
	}

	orders, err := u.customers.ListOrders(ctx, c.ID)
	if err != nil {
		return []model.Order{}, internalError(err)
	}
	return orders, nil
}
