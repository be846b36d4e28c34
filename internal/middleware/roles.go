package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

// RequireRoles gates a route to the given roles. Stateless and order
// independent with respect to other guards on the same route.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := common.GetPrincipal(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", principal.Role))
			}
			return next(c)
		}
	}
}
