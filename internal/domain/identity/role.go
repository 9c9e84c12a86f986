package identity

import "strings"

// Role is a site role name. Roles are assigned by the host site; this
// service only reads them.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleVendor        Role = "vendor"
	RoleCustomer      Role = "customer"
)

// ParseRole normalizes a stored role name
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// RoleSet is an unordered set of roles
type RoleSet map[Role]struct{}

// NewRoleSet builds a role set, skipping empty names
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r != "" {
			s[r] = struct{}{}
		}
	}
	return s
}

// Has reports whether role is in the set
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Strings returns role names, for token claims
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	return out
}
