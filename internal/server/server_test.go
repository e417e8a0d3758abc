package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/config"
	"storefront/internal/infra/db/dbtest"
	"storefront/internal/middleware"
	"storefront/internal/server"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// helper
// =====================

const testSecret = "test-secret"

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
	token  string
}

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	gormDB := dbtest.Open(t)
	e, err := server.New(config.Config{
		Port:      "0",
		JWTSecret: testSecret,
		GoEnv:     "test",
		Catalog:   config.CatalogConfig{FeaturedSlug: "pan", FeaturedLimit: 6},
	}, gormDB)
	require.NoError(t, err)
	return e, gormDB
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	//発行されたvisitor_idを次のリクエストで送る
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.VisitorCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

type cartBody struct {
	ID            int64  `json:"id"`
	InOrder       bool   `json:"in_order"`
	TotalProducts int64  `json:"total_products"`
	FinalPrice    string `json:"final_price"`
}

type actionBody struct {
	Message  string   `json:"message"`
	Redirect string   `json:"redirect"`
	Cart     cartBody `json:"cart"`
}

type errorBody struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields"`
	Redirect string            `json:"redirect"`
}

func seedCatalog(t *testing.T, gormDB *gorm.DB) {
	t.Helper()
	cat := dbtest.SeedCategory(t, gormDB, "Pants", "pants")
	dbtest.SeedProduct(t, gormDB, cat.ID, "cargo-pants", "10.00")
	dbtest.SeedProduct(t, gormDB, cat.ID, "jeans", "5.50")
}

// =====================
// 匿名の購入フロー
// =====================

func TestServer_AnonymousCheckoutFlow(t *testing.T) {
	e, gormDB := newServer(t)
	seedCatalog(t, gormDB)
	c := &client{t: t, e: e}

	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)

	var home struct {
		Products []struct {
			Slug string `json:"slug"`
		} `json:"products"`
	}
	decode(t, rec, &home)
	require.Len(t, home.Products, 1)
	assert.Equal(t, "cargo-pants", home.Products[0].Slug)

	rec = c.do(http.MethodGet, "/add-to-cart/product/cargo-pants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodGet, "/add-to-cart/product/jeans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/change-qty/product/cargo-pants", url.Values{"qty": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	var changed actionBody
	decode(t, rec, &changed)
	assert.Equal(t, "Quantity changed", changed.Message)
	assert.Equal(t, "/cart/", changed.Redirect)
	assert.Equal(t, int64(3), changed.Cart.TotalProducts)
	assert.Equal(t, "25.50", changed.Cart.FinalPrice)

	rec = c.do(http.MethodPost, "/make-order/", url.Values{
		"first_name":   {"Ann"},
		"last_name":    {"Lee"},
		"phone_number": {"+15550100"},
		"address":      {"1 Main St"},
		"buying_type":  {"self"},
		"order_date":   {"2026-11-01"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var placed struct {
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
		Order    struct {
			CustomerID *int64   `json:"customer_id"`
			Cart       cartBody `json:"cart"`
		} `json:"order"`
	}
	decode(t, rec, &placed)
	assert.Equal(t, "Thank you for your order! A manager will contact you.", placed.Message)
	assert.Equal(t, "/", placed.Redirect)
	assert.Nil(t, placed.Order.CustomerID)
	assert.True(t, placed.Order.Cart.InOrder)
	assert.Equal(t, changed.Cart.ID, placed.Order.Cart.ID)

	//注文後は空の新しいカート
	rec = c.do(http.MethodGet, "/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Cart cartBody `json:"cart"`
	}
	decode(t, rec, &view)
	assert.NotEqual(t, changed.Cart.ID, view.Cart.ID)
	assert.Equal(t, "0.00", view.Cart.FinalPrice)
}

func TestServer_MakeOrder_ValidationError(t *testing.T) {
	e, _ := newServer(t)
	c := &client{t: t, e: e}

	rec := c.do(http.MethodPost, "/make-order/", url.Values{"first_name": {"Ann"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "validation error", body.Error)
	assert.Equal(t, "/checkout/", body.Redirect)
	assert.Contains(t, body.Fields, "last_name")
	assert.Contains(t, body.Fields, "order_date")
}

func TestServer_ChangeQty_Negative(t *testing.T) {
	e, gormDB := newServer(t)
	seedCatalog(t, gormDB)
	c := &client{t: t, e: e}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/add-to-cart/product/jeans", nil).Code)

	rec := c.do(http.MethodPost, "/change-qty/product/jeans", url.Values{"qty": {"-3"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_NotFound(t *testing.T) {
	e, gormDB := newServer(t)
	seedCatalog(t, gormDB)
	c := &client{t: t, e: e}

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/products/product/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/category/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/add-to-cart/product/nope", nil).Code)

	rec := c.do(http.MethodGet, "/category/pants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Kind string `json:"kind"`
	}
	decode(t, rec, &page)
	assert.Equal(t, "category", page.Kind)
}

// =====================
// ログイン済み
// =====================

func TestServer_AuthenticatedOrderHistory(t *testing.T) {
	e, gormDB := newServer(t)
	seedCatalog(t, gormDB)
	dbtest.SeedCustomer(t, gormDB, 9)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "9"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	c := &client{t: t, e: e, token: tok}

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/add-to-cart/product/jeans", nil).Code)
	rec := c.do(http.MethodPost, "/make-order/", url.Values{
		"first_name":   {"Ann"},
		"last_name":    {"Lee"},
		"phone_number": {"+15550100"},
		"address":      {"1 Main St"},
		"order_date":   {"2026-11-01 10:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/customer/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Orders []struct {
			ID         int64  `json:"id"`
			BuyingType string `json:"buying_type"`
		} `json:"orders"`
	}
	decode(t, rec, &history)
	require.Len(t, history.Orders, 1)
	assert.Equal(t, "delivery", history.Orders[0].BuyingType)

	//トークンなしは401
	anon := &client{t: t, e: e}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/customer/orders", nil).Code)

	//壊れたトークンも401
	bad := &client{t: t, e: e, token: "broken"}
	assert.Equal(t, http.StatusUnauthorized, bad.do(http.MethodGet, "/", nil).Code)
}

func TestServer_Health(t *testing.T) {
	e, _ := newServer(t)
	c := &client{t: t, e: e}

	rec := c.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
