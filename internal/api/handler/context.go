package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanus/booking-api/internal/api/middleware"
	"github.com/cleanus/booking-api/pkg/token"
)

// ctxUserID extracts the caller id injected by the Auth middleware. A missing
// value means the route was mounted without the middleware.
func ctxUserID(c echo.Context) (int64, error) {
	id, _ := c.Get(middleware.ContextUserID).(int64)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, _ := c.Get(middleware.ContextClaims).(*token.Claims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
