package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 注文フォーム（form/JSONどちらでも受ける）
type OrderCreateRequest struct {
	FirstName   string `form:"first_name" json:"first_name"`
	LastName    string `form:"last_name" json:"last_name"`
	PhoneNumber string `form:"phone_number" json:"phone_number"`
	Address     string `form:"address" json:"address"`
	BuyingType  string `form:"buying_type" json:"buying_type"`
	OrderDate   string `form:"order_date" json:"order_date"`
	Comment     string `form:"comment" json:"comment"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout/", h.checkout)
	e.POST("/make-order/", h.create)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	out, err := h.uc.Checkout(c.Request().Context(), visitorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), visitorFrom(c), usecase.PlaceOrderInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		BuyingType:  req.BuyingType,
		OrderDate:   req.OrderDate,
		Comment:     req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
