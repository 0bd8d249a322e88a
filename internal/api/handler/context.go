package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/api/middleware"
	"github.com/readstack/library-system/internal/core/domain"
)

// currentUser extracts the identity attached by the Auth middleware.
// Nil means the request was allowed through anonymously (optional auth).
func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	return user
}

// currentRole returns the caller's role, or "" for anonymous requests.
func currentRole(c echo.Context) string {
	if user := currentUser(c); user != nil {
		return user.Role
	}
	return ""
}

// issuedToken returns the session token the Auth middleware minted for this
// request.
func issuedToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextTokenKey).(string)
	return token
}
