package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warden.dev/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		token  string
		err    error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"missing", "", "", errMissingCredentials},
		{"lowercase scheme", "bearer abc", "", errMalformedCredentials},
		{"wrong scheme", "Basic abc", "", errMalformedCredentials},
		{"scheme only", "Bearer", "", errMalformedCredentials},
		{"empty token", "Bearer ", "", errMalformedCredentials},
		{"double space", "Bearer  abc", "", errMalformedCredentials},
		{"token with space", "Bearer abc def", "", errMalformedCredentials},
	}
	for _, tc := range cases {
		token, err := extractBearerToken(tc.header)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected error %v, got %v", tc.name, tc.err, err)
		}
		if token != tc.token {
			t.Fatalf("%s: expected token %q, got %q", tc.name, tc.token, token)
		}
	}
}

func TestAuthGateRejectsBeforeHandlerRuns(t *testing.T) {
	api, _ := newTestAPI(t)

	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := api.withAuth(api.protect(inner, auth.PermReadUser))

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if called {
		t.Fatal("handler must not run without credentials")
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestAuthGateGenericBodyForTokenFailures(t *testing.T) {
	_, handler := newTestAPI(t)

	expired, err := auth.NewTokenService([]byte("httpapi-test-secret"),
		auth.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	expiredToken, _, err := expired.Issue("user-1", "viewer", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	foreign, err := auth.NewTokenService([]byte("attacker-secret"))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	forgedToken, _, err := foreign.Issue("user-1", "admin", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for name, token := range map[string]string{
		"expired":   expiredToken,
		"forged":    forgedToken,
		"malformed": "not.a.token",
	} {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rr.Code)
		}
		// The failure kind must not leak into the response body.
		body := rr.Body.String()
		for _, leak := range []string{"expired", "signature", "malformed"} {
			if strings.Contains(body, leak) {
				t.Fatalf("%s: response leaks failure kind: %s", name, body)
			}
		}
	}
}

func TestAuthGateAttachesClaims(t *testing.T) {
	api, _ := newTestAPI(t)
	_, token := seedUser(t, api, "claims@example.com", "password123", auth.RoleViewer)

	var seen *auth.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ClaimsFromContext(r.Context())
	})
	handler := api.withAuth(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen == nil {
		t.Fatal("expected claims in downstream context")
	}
	if seen.Role != auth.RoleViewer {
		t.Fatalf("unexpected role: %q", seen.Role)
	}
}

func TestAuthGateSkipsPublicPaths(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected public path to bypass the gate, got %d", rr.Code)
	}
}

func TestProtectFailsClosedWithoutAuthGate(t *testing.T) {
	api, _ := newTestAPI(t)

	// The authorization gate invoked without a prior authentication gate is
	// a caller error and must reject, not permit.
	handler := api.protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}), auth.PermReadUser)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
