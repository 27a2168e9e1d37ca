package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func editorClaims() *Claims {
	return &Claims{
		Role:             "editor",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
}

func TestAuthorizeConjunctiveSemantics(t *testing.T) {
	authorizer, err := NewAuthorizer(NewCatalog(map[string][]string{
		"editor": {"create:post", "read:post", "update:post"},
	}))
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}

	cases := []struct {
		name     string
		required []string
		allowed  bool
	}{
		{"single held permission", []string{"create:post"}, true},
		{"subset of held permissions", []string{"create:post", "read:post"}, true},
		{"empty requirement", nil, true},
		{"single missing permission", []string{"delete:post"}, false},
		{"one held one missing", []string{"read:post", "delete:post"}, false},
	}
	for _, tc := range cases {
		err := authorizer.Authorize(editorClaims(), tc.required...)
		if tc.allowed && err != nil {
			t.Fatalf("%s: expected allow, got %v", tc.name, err)
		}
		if !tc.allowed && !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", tc.name, err)
		}
	}
}

func TestAuthorizeUniversalGrant(t *testing.T) {
	authorizer, err := NewAuthorizer(DefaultCatalog())
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	claims := &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "root"},
	}

	// The universal grant satisfies permissions that exist nowhere in the
	// catalog at all.
	if err := authorizer.Authorize(claims, "delete:post", "launch:rocket"); err != nil {
		t.Fatalf("expected universal grant to allow, got %v", err)
	}
}

func TestAuthorizeUnknownRoleIsForbidden(t *testing.T) {
	authorizer, err := NewAuthorizer(DefaultCatalog())
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	claims := &Claims{
		Role:             "operator",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-9"},
	}

	err = authorizer.Authorize(claims, "read:post")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown role, got %v", err)
	}
}

func TestAuthorizeFailsClosedWithoutIdentity(t *testing.T) {
	authorizer, err := NewAuthorizer(DefaultCatalog())
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}

	if err := authorizer.Authorize(nil, "read:post"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil claims, got %v", err)
	}
	empty := &Claims{Role: RoleAdmin}
	if err := authorizer.Authorize(empty, "read:post"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for missing subject, got %v", err)
	}
}

func TestClaimsContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := ClaimsFromContext(ctx); ok {
		t.Fatalf("expected no claims on fresh context")
	}

	ctx = ContextWithClaims(ctx, editorClaims())
	ctx = ContextWithToken(ctx, "raw-token")

	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Subject != "user-1" || claims.Role != "editor" {
		t.Fatalf("unexpected claims from context: %+v ok=%v", claims, ok)
	}
	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw-token" {
		t.Fatalf("unexpected token from context: %q ok=%v", token, ok)
	}
}
