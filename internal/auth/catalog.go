package auth

import (
	"sort"
	"strings"
)

// PermissionAll is the universal grant marker. A role whose permission set
// contains it satisfies every permission check.
const PermissionAll = "*"

// PermissionSet is an unordered set of permission keys granted to a role.
type PermissionSet map[string]struct{}

// Contains reports whether the set holds the given permission key.
func (s PermissionSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the permission keys in sorted order.
func (s PermissionSet) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Catalog is an immutable role-to-permissions table built once at startup.
// Lookups never mutate it, so a single Catalog is safe for concurrent use.
type Catalog struct {
	roles map[string]PermissionSet
}

// NewCatalog builds a Catalog from a role-to-permissions configuration.
// Role names are normalized to lower case; empty roles and empty permission
// keys are dropped.
func NewCatalog(roles map[string][]string) *Catalog {
	table := make(map[string]PermissionSet, len(roles))
	for role, perms := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		set := make(PermissionSet, len(perms))
		for _, p := range perms {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		table[role] = set
	}
	return &Catalog{roles: table}
}

// PermissionsFor returns the permission set for the role. The second return
// value reports whether the role exists in the catalog: an unknown role is
// not the same as a role holding no permissions, and callers decide how to
// treat it.
func (c *Catalog) PermissionsFor(role string) (PermissionSet, bool) {
	set, ok := c.roles[strings.TrimSpace(strings.ToLower(role))]
	if !ok {
		return nil, false
	}
	return set, true
}

// Roles returns the role names known to the catalog in sorted order.
func (c *Catalog) Roles() []string {
	out := make([]string, 0, len(c.roles))
	for role := range c.roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}
