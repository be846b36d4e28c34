package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

// AccessClaims is the signed claim set carried by every bearer token.
// TenantID is nil for platform super admins.
type AccessClaims struct {
	UserID   uuid.UUID   `json:"userId"`
	TenantID *uuid.UUID  `json:"tenantId"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWT validates the bearer token and stashes the verified principal in the
// request context. The principal is the only trusted source of tenant
// context downstream.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AccessClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*AccessClaims)
			if !ok || !claims.Role.Valid() {
				return
			}
			ctx := common.WithPrincipal(c.Request().Context(), common.Principal{
				UserID:   claims.UserID,
				TenantID: claims.TenantID,
				Role:     claims.Role,
			})
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		},
	})
}

// RequirePrincipal rejects requests whose token passed signature checks but
// produced no usable principal (e.g. an unknown role).
func RequirePrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := common.GetPrincipal(c.Request().Context()); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		}
		return next(c)
	}
}
