package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"padoca/internal/common"
	"padoca/internal/services"
)

// JWT returns the echo-jwt middleware configured for the access tokens the
// auth service issues.
func JWT(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
	})
}

// TenantContext resolves the validated token claims into the per-request
// authorization scope and stores it on the request context. Must run after
// JWT.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			tc, err := common.ResolveTenantContext(claims.UserID, claims.Role, claims.ClientID)
			if err != nil {
				return echo.NewHTTPError(common.HTTPStatus(err), err.Error())
			}

			ctx := common.WithTenantContext(c.Request().Context(), tc)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
