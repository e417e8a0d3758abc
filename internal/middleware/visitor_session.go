package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	VisitorCookieName = "visitor_id"
	CtxVisitorIDKey   = "visitor_id" // string

	visitorCookieTTL = 365 * 24 * time.Hour
)

// 匿名カート用の来訪者ID。cookieが無い/壊れていれば発行する
func VisitorSession(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(VisitorCookieName); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					c.Set(CtxVisitorIDKey, ck.Value)
					return next(c)
				}
			}

			id := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     VisitorCookieName,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(visitorCookieTTL),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxVisitorIDKey, id)
			return next(c)
		}
	}
}

// VisitorID はVisitorSessionが入れた来訪者IDを返す
func VisitorID(c echo.Context) string {
	id, _ := c.Get(CtxVisitorIDKey).(string)
	return id
}
