package handler

import (
	"github.com/labstack/echo/v4"

	"movierating/internal/auth"
	"movierating/internal/model"
	"movierating/internal/service"
)

const (
	// ClaimsContextKey is where the JWT middleware stores verified claims.
	ClaimsContextKey   = "user"
	identityContextKey = "identity"
)

// RequireIdentity resolves verified claims to a live user and stores it on
// the context. It must run after the JWT middleware.
func RequireIdentity(guard *service.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := guard.Resolve(c.Request().Context(), claimsFrom(c))
			if err != nil {
				return httpError(err)
			}
			c.Set(identityContextKey, user)
			return next(c)
		}
	}
}

func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims
}

func identityFrom(c echo.Context) *model.User {
	user, _ := c.Get(identityContextKey).(*model.User)
	return user
}
