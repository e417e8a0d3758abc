package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カート操作のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type ChangeQtyRequest struct {
	Qty string `form:"qty" json:"qty"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart/", h.getCart)
	e.GET("/add-to-cart/:ct_model/:slug", h.addToCart)
	e.GET("/remove-from-cart/:ct_model/:slug", h.removeFromCart)
	e.POST("/change-qty/:ct_model/:slug", h.changeQty)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), visitorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	out, err := h.uc.AddToCart(c.Request().Context(), visitorFrom(c), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeFromCart(c echo.Context) error {
	out, err := h.uc.RemoveFromCart(c.Request().Context(), visitorFrom(c), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) changeQty(c echo.Context) error {
	var req ChangeQtyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ChangeQty(c.Request().Context(), visitorFrom(c), c.Param("slug"), req.Qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
