package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"padoca/internal/common"
)

// RequireInternal blocks client-company callers. Catalog and client-company
// management are staff-only surfaces.
func RequireInternal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, ok := common.TenantFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
			}
			if tc.Restricted() {
				return echo.NewHTTPError(http.StatusForbidden, "internal staff access required")
			}
			return next(c)
		}
	}
}
