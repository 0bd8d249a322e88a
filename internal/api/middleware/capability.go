package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/api/metrics"
	"github.com/readstack/library-system/internal/core/authz"
	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// RequireCapability gates a route on the authenticated user's role granting
// capability. The role mapping is looked up fresh on every request. Denials
// are 403 with the route's own message; it fails closed when no user was
// attached or the role has no mapping.
func RequireCapability(roles ports.RoleRepository, capability, denialMessage string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextUserKey).(*domain.User)
			if !authz.Can(c.Request().Context(), roles, user, capability) {
				metrics.CapabilityDenialsTotal.WithLabelValues(capability).Inc()
				return echo.NewHTTPError(http.StatusForbidden, denialMessage)
			}
			return next(c)
		}
	}
}

// RequireRole gates a route on an exact role match, independent of the
// capability mapping.
func RequireRole(role, denialMessage string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextUserKey).(*domain.User)
			if user == nil || user.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, denialMessage)
			}
			return next(c)
		}
	}
}
