package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Authorizer decides whether an authenticated identity may perform an
// operation guarded by a set of required permissions. It is a pure function
// of (role, required permissions) over the injected catalog: no I/O, no side
// effects, safe to re-evaluate any number of times.
type Authorizer struct {
	catalog *Catalog
}

// NewAuthorizer constructs an Authorizer over the given catalog.
func NewAuthorizer(catalog *Catalog) (*Authorizer, error) {
	if catalog == nil {
		return nil, errors.New("auth: catalog is required")
	}
	return &Authorizer{catalog: catalog}, nil
}

// Authorize checks the claims against the required permission keys.
// Semantics are conjunctive: every required key must be present in the
// role's permission set unless the set holds the universal grant marker.
// A nil or subject-less claims value fails closed with ErrUnauthenticated;
// calling Authorize without a prior successful authentication is a caller
// error, never a pass. An unknown role is ErrForbidden, not an empty set.
func (a *Authorizer) Authorize(claims *Claims, required ...string) error {
	if claims == nil || strings.TrimSpace(claims.Subject) == "" {
		return ErrUnauthenticated
	}
	perms, ok := a.catalog.PermissionsFor(claims.Role)
	if !ok {
		return fmt.Errorf("%w: role %q has no permissions", ErrForbidden, claims.Role)
	}
	if perms.Contains(PermissionAll) {
		return nil
	}
	for _, key := range required {
		if !perms.Contains(key) {
			return fmt.Errorf("%w: missing permissions", ErrForbidden)
		}
	}
	return nil
}

// Catalog exposes the underlying catalog for diagnostic listings.
func (a *Authorizer) Catalog() *Catalog {
	return a.catalog
}
