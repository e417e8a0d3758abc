package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisitorEcho(secure bool) *echo.Echo {
	e := echo.New()
	e.Use(middleware.VisitorSession(secure))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.VisitorID(c))
	})
	return e
}

func visitorCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.VisitorCookieName {
			return ck
		}
	}
	return nil
}

func TestVisitorSession_IssuesCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newVisitorEcho(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	ck := visitorCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, ck.Value, rec.Body.String())

	_, err := uuid.Parse(ck.Value)
	assert.NoError(t, err)
}

func TestVisitorSession_ReusesCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.VisitorCookieName, Value: id})

	rec := httptest.NewRecorder()
	newVisitorEcho(false).ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Body.String())
	assert.Nil(t, visitorCookie(rec))
}

func TestVisitorSession_ReplacesInvalidCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.VisitorCookieName, Value: "not-a-uuid"})

	rec := httptest.NewRecorder()
	newVisitorEcho(false).ServeHTTP(rec, req)

	ck := visitorCookie(rec)
	require.NotNil(t, ck)
	assert.NotEqual(t, "not-a-uuid", ck.Value)
	assert.False(t, ck.Secure)
}
