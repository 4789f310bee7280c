package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cleanus/booking-api/pkg/token"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// RevocationChecker reports whether a token id has been denylisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Auth validates the bearer token and injects the caller identity into the
// context. revoked may be nil, in which case only signature and expiry are
// checked.
func Auth(tokens *token.Manager, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil && claims.ID != "" {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return fmt.Errorf("auth: %w", err)
				}
				if isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextClaims, claims)

			return next(c)
		}
	}
}
