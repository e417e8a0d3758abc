package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/cockroachdb/errors"
)

const (
	MessageOrderPlaced = "Thank you for your order! A manager will contact you."

	checkoutRedirect = "/checkout/"
	homeRedirect     = "/"
)

// フォーム検証の約束（validator.FormValidatorが実装）
type FormValidator interface {
	ValidateForm(form interface{}) map[string]string
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	carts    *CartUsecase
	validate FormValidator
}

func NewOrderUsecase(tx repo.TransactionManager, carts *CartUsecase, validate FormValidator) *OrderUsecase {
	return &OrderUsecase{tx: tx, carts: carts, validate: validate}
}

// 注文フォーム
type PlaceOrderInput struct {
	FirstName   string `form:"first_name" validate:"required,max=255"`
	LastName    string `form:"last_name" validate:"required,max=255"`
	PhoneNumber string `form:"phone_number" validate:"required,max=20"`
	Address     string `form:"address" validate:"required,max=1024"`
	BuyingType  string `form:"buying_type" validate:"omitempty,oneof=self delivery"`
	OrderDate   string `form:"order_date" validate:"required,orderdate"`
	Comment     string `form:"comment"`
}

type OrderOutput struct {
	ID          int64      `json:"id"`
	CustomerID  *int64     `json:"customer_id"`
	CartID      int64      `json:"cart_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	BuyingType  string     `json:"buying_type"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
	OrderDate   time.Time  `json:"order_date"`
	Cart        CartOutput `json:"cart"`
}

type PlaceOrderOutput struct {
	Message  string      `json:"message"`
	Redirect string      `json:"redirect"`
	Order    OrderOutput `json:"order"`
}

// checkout画面の空フォーム
type OrderFormSpec struct {
	Fields            []string `json:"fields"`
	BuyingTypes       []string `json:"buying_types"`
	DefaultBuyingType string   `json:"default_buying_type"`
}

type CheckoutOutput struct {
	Cart       CartOutput       `json:"cart"`
	Categories []model.Category `json:"categories"`
	Form       OrderFormSpec    `json:"form"`
}

// Checkout はカート内容と空の注文フォーム。
func (u *OrderUsecase) Checkout(ctx context.Context, v Visitor) (CheckoutOutput, error) {
	view, err := u.carts.GetCart(ctx, v)
	if err != nil {
		return CheckoutOutput{}, err
	}

	return CheckoutOutput{
		Cart:       view.Cart,
		Categories: view.Categories,
		Form: OrderFormSpec{
			Fields: []string{
				"first_name", "last_name", "phone_number", "address",
				"buying_type", "order_date", "comment",
			},
			BuyingTypes:       []string{string(model.BuyingTypeSelf), string(model.BuyingTypeDelivery)},
			DefaultBuyingType: string(model.BuyingTypeDelivery),
		},
	}, nil
}

// PlaceOrder はカートを注文に変える。
// カートの確定・注文作成・購入者への紐付けは1トランザクション。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, v Visitor, in PlaceOrderInput) (PlaceOrderOutput, error) {
	in = trimOrderInput(in)

	//入力エラーなら何も変えずにcheckoutへ戻す
	if fields := u.validate.ValidateForm(in); len(fields) > 0 {
		return PlaceOrderOutput{}, validationError(fields, checkoutRedirect)
	}
	orderDate, err := validator.ParseOrderDate(in.OrderDate)
	if err != nil {
		return PlaceOrderOutput{}, validationError(map[string]string{"order_date": "enter a valid date"}, checkoutRedirect)
	}
	buyingType := model.BuyingType(in.BuyingType)
	if buyingType == "" {
		buyingType = model.BuyingTypeDelivery
	}

	var customer *model.Customer
	if v.IsAuthenticated() {
		c, err := u.carts.customers.FindByUserID(ctx, v.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		if err != nil {
			return PlaceOrderOutput{}, internalError(err)
		}
		customer = &c
	}

	cart, err := u.carts.ResolveCart(ctx, v)
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := lockOpenCart(ctx, r, cart.ID); err != nil {
			return err
		}

		//カートを注文済みにする
		if err := r.Carts().MarkInOrder(ctx, cart.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusConflict, "cart already ordered")
			}
			return internalError(err)
		}

		order := model.Order{
			CartID:      cart.ID,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			PhoneNumber: in.PhoneNumber,
			Address:     in.Address,
			BuyingType:  buyingType,
			Status:      model.OrderStatusNew,
			Comment:     in.Comment,
			OrderDate:   orderDate,
		}
		if customer != nil {
			customerID := customer.ID
			order.CustomerID = &customerID
		}

		created, err := r.Orders().Create(ctx, order)
		if errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusConflict, "cart already ordered")
		}
		if err != nil {
			return internalError(err)
		}

		//DBの既定値（created_atなど）を読み直す
		created, err = r.Orders().FindByID(ctx, created.ID)
		if err != nil {
			return internalError(err)
		}

		//匿名カートでなければ購入者の注文に追加
		if !cart.ForAnonymousUser && customer != nil {
			if err := r.Customers().AppendOrder(ctx, customer.ID, created.ID); err != nil {
				return internalError(err)
			}
		}

		closed, err := r.Carts().FindByID(ctx, cart.ID)
		if err != nil {
			return internalError(err)
		}
		items, err := r.CartProducts().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internalError(err)
		}

		out = toOrderOutput(created, toCartOutput(closed, items))
		return nil
	})
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	return PlaceOrderOutput{Message: MessageOrderPlaced, Redirect: homeRedirect, Order: out}, nil
}

func trimOrderInput(in PlaceOrderInput) PlaceOrderInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	in.BuyingType = strings.TrimSpace(in.BuyingType)
	in.OrderDate = strings.TrimSpace(in.OrderDate)
	in.Comment = strings.TrimSpace(in.Comment)
	return in
}

func toOrderOutput(o model.Order, cart CartOutput) OrderOutput {
	return OrderOutput{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		CartID:      o.CartID,
		FirstName:   o.FirstName,
		LastName:    o.LastName,
		PhoneNumber: o.PhoneNumber,
		Address:     o.Address,
		BuyingType:  string(o.BuyingType),
		Status:      string(o.Status),
		Comment:     o.Comment,
		CreatedAt:   o.CreatedAt,
		OrderDate:   o.OrderDate,
		Cart:        cart,
	}
}
