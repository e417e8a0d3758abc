package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// トップ・カテゴリ・商品ページ
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.storefront)
	e.GET("/category/:slug", h.category)
	// :ct_modelは旧URLとの互換のため受けるだけ
	e.GET("/products/:ct_model/:slug", h.product)
}

func (h *CatalogHandler) storefront(c echo.Context) error {
	out, err := h.uc.Storefront(c.Request().Context(), visitorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) category(c echo.Context) error {
	out, err := h.uc.CategoryPage(c.Request().Context(), visitorFrom(c), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) product(c echo.Context) error {
	out, err := h.uc.ProductPage(c.Request().Context(), visitorFrom(c), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
