// Package authz answers capability questions for resolved identities.
//
// Capability checks are a free function over the role store rather than a
// method on user records: the role mapping is fetched fresh on every call so
// grant changes take effect on the next request, not when a token was issued.
package authz

import (
	"context"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

// Can reports whether user's role grants capability. It fails closed: a nil
// user, an unmapped role, or a store failure all deny.
func Can(ctx context.Context, roles ports.RoleRepository, user *domain.User, capability string) bool {
	if user == nil || user.Role == "" {
		return false
	}
	grant, err := roles.FindByRole(ctx, user.Role)
	if err != nil || grant == nil {
		return false
	}
	return grant.Grants(capability)
}
