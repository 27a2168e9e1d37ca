package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"warden.dev/internal/audit"
	"warden.dev/internal/auth"
	"warden.dev/internal/ids"
	"warden.dev/internal/obs"
	"warden.dev/internal/store"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

const minPasswordLength = 8

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, r, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "registration failed")
		return
	}
	// Self-registration never picks its own role; promotion is a separate,
	// permission-gated update.
	user := &store.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleViewer,
	}
	if err := a.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			writeError(w, r, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "registration failed")
		return
	}

	token, expiresAt, err := a.tokens.Issue(user.ID, user.Role, 0)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		// Same response for unknown email and wrong password.
		obs.ObserveAuthFailure("bad_credentials")
		unauthorized(w, r, "invalid credentials")
		return
	}
	if err := a.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		obs.ObserveAuthFailure("bad_credentials")
		unauthorized(w, r, "invalid credentials")
		return
	}

	token, expiresAt, err := a.tokens.Issue(user.ID, user.Role, 0)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}
	obs.ObserveLogin()
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": user.ID,
	})
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// handleMe returns the caller's own profile. It is the self-scoped path:
// authentication is enough, no catalog permission involved.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "unauthenticated")
		return
	}
	user, err := a.users.FindByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account.
			unauthorized(w, r, "invalid token")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
