package domain

import "errors"

// Capability tags understood by the authorization layer.
const (
	CapCreate    = "create"
	CapRead      = "read"
	CapUpdate    = "update"
	CapDelete    = "delete"
	CapSuperuser = "superuser"
)

var ErrRoleNotFound = errors.New("role not found")

// RoleGrant maps a role name to its capability set. It lives independently
// from User records and is resolved fresh at authorization time, so capability
// changes apply on the next request rather than being baked into issued tokens.
type RoleGrant struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

// Grants reports whether the grant includes the given capability.
func (g RoleGrant) Grants(capability string) bool {
	for _, c := range g.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// DefaultGrants is the role/capability seed installed into an empty store.
var DefaultGrants = []RoleGrant{
	{Role: RoleAdmin, Capabilities: []string{CapCreate, CapRead, CapUpdate, CapDelete, CapSuperuser}},
	{Role: RoleEditor, Capabilities: []string{CapCreate, CapRead, CapUpdate}},
	{Role: RoleUser, Capabilities: []string{CapRead}},
}
