package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// RBAC enforces role-based access control. Rejections surface as
// domain.ErrForbidden so the central error handler shapes the response.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
