package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			c.Logger().Errorf("%s %s: %+v", c.Request().Method, c.Path(), err)
		}
		return c.JSON(he.Status, ErrorResponse{
			Error:    he.Message,
			Fields:   he.Fields,
			Redirect: he.Redirect,
		})
	}

	//500
	c.Logger().Errorf("%s %s: %+v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// リクエストの来訪者（ログイン済みならuser_id、それ以外はcookieの来訪者ID）
func visitorFrom(c echo.Context) usecase.Visitor {
	userID, _ := middleware.UserID(c)
	return usecase.Visitor{
		UserID:    userID,
		SessionID: middleware.VisitorID(c),
	}
}
