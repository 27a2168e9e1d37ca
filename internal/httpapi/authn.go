package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"warden.dev/internal/auth"
	"warden.dev/internal/obs"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer"
)

var (
	errMissingCredentials   = errors.New("missing credentials")
	errMalformedCredentials = errors.New("malformed credentials")
)

var publicPaths = []string{
	"/v1/auth/register",
	"/v1/auth/login",
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/",
}

// withAuth is the authentication gate. It runs in front of the router:
// every non-public request must carry a verifiable bearer token before any
// downstream handler executes. Verification failures collapse into a 401
// with a generic body; the precise kind feeds metrics only.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.ObserveAuthFailure(headerFailureReason(err))
			unauthorized(w, r, err.Error())
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			obs.ObserveAuthFailure(tokenFailureReason(err))
			unauthorized(w, r, "invalid token")
			return
		}

		ctx := auth.ContextWithClaims(r.Context(), claims)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth guards handlers that need an identity but no particular
// permission. It fails closed if the authentication gate did not run.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
			obs.ObserveAuthFailure("missing_identity")
			unauthorized(w, r, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// protect is the authorization gate as a composable stage: the required
// permission set is fixed when the route is registered.
func (a *API) protect(next http.Handler, required ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.ensurePermissions(w, r, required...) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ensurePermissions evaluates the authorization gate for an in-flight
// request. Returns true when the request may proceed; otherwise it has
// already written the 401/403 response.
func (a *API) ensurePermissions(w http.ResponseWriter, r *http.Request, required ...string) bool {
	claims, _ := auth.ClaimsFromContext(r.Context())
	err := a.authorizer.Authorize(claims, required...)
	switch {
	case err == nil:
		return true
	case errors.Is(err, auth.ErrUnauthenticated):
		obs.ObserveAuthFailure("missing_identity")
		unauthorized(w, r, "unauthenticated")
	case errors.Is(err, auth.ErrForbidden):
		obs.ObserveAuthFailure("forbidden")
		writeError(w, r, http.StatusForbidden, "forbidden")
	default:
		writeError(w, r, http.StatusInternalServerError, "authorization error")
	}
	return false
}

// extractBearerToken enforces the wire contract for the credential header:
// case-sensitive "Bearer" scheme, single space, non-empty token.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingCredentials
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme || token == "" || strings.ContainsRune(token, ' ') {
		return "", errMalformedCredentials
	}
	return token, nil
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="warden"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

func headerFailureReason(err error) string {
	if errors.Is(err, errMissingCredentials) {
		return "missing_header"
	}
	return "malformed_header"
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, auth.ErrTokenSignature):
		return "token_signature"
	default:
		return "token_malformed"
	}
}
