package auth

import (
	"slices"
	"testing"
)

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog(map[string][]string{
		"Editor": {"create:post", "read:post", " ", "read:post"},
		"":       {"never:kept"},
	})

	perms, ok := catalog.PermissionsFor("editor")
	if !ok {
		t.Fatalf("expected editor role to exist")
	}
	if !perms.Contains("create:post") || !perms.Contains("read:post") {
		t.Fatalf("missing expected permissions: %v", perms.Keys())
	}
	if len(perms) != 2 {
		t.Fatalf("expected blank and duplicate keys dropped, got %v", perms.Keys())
	}

	// Role names are normalized, so mixed-case lookups resolve.
	if _, ok := catalog.PermissionsFor("EDITOR"); !ok {
		t.Fatalf("expected case-insensitive role lookup")
	}
}

func TestCatalogUnknownRole(t *testing.T) {
	catalog := DefaultCatalog()

	perms, ok := catalog.PermissionsFor("operator")
	if ok {
		t.Fatalf("expected unknown role to be reported as absent")
	}
	if perms != nil {
		t.Fatalf("expected nil set for unknown role, got %v", perms.Keys())
	}
}

func TestDefaultCatalogRoles(t *testing.T) {
	catalog := DefaultCatalog()

	roles := catalog.Roles()
	if !slices.Equal(roles, []string{"admin", "editor", "viewer"}) {
		t.Fatalf("unexpected roles: %v", roles)
	}

	adminPerms, ok := catalog.PermissionsFor(RoleAdmin)
	if !ok || !adminPerms.Contains(PermissionAll) {
		t.Fatalf("expected admin to hold the universal grant")
	}
	viewerPerms, ok := catalog.PermissionsFor(RoleViewer)
	if !ok || viewerPerms.Contains(PermDeletePost) {
		t.Fatalf("viewer must not hold delete:post")
	}
}
