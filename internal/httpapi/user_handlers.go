package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"warden.dev/internal/audit"
	"warden.dev/internal/auth"
	"warden.dev/internal/store"
)

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "listing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermReadUser) {
			return
		}
		a.getUser(w, r, id)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermUpdateUser) {
			return
		}
		a.updateUser(w, r, id)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteUser) {
			return
		}
		a.deleteUser(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	var req updateUserRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var upd store.UserUpdate
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			writeError(w, r, http.StatusBadRequest, "valid email is required")
			return
		}
		upd.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := a.hasher.Hash(*req.Password)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "update failed")
			return
		}
		upd.PasswordHash = &hash
	}
	if req.Role != nil {
		role := strings.TrimSpace(strings.ToLower(*req.Role))
		if _, ok := a.authorizer.Catalog().PermissionsFor(role); !ok {
			writeError(w, r, http.StatusBadRequest, "unknown role")
			return
		}
		upd.Role = &role
	}

	user, err := a.users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.update", map[string]any{
		"user_id":      user.ID,
		"role_changed": req.Role != nil,
	})
	writeJSON(w, http.StatusOK, user)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.users.DeleteUser(r.Context(), id); err != nil {
		handleStoreError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.delete", map[string]any{
		"user_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleRoles lists the permission catalog for diagnostics.
func (a *API) handleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	catalog := a.authorizer.Catalog()
	roles := make(map[string][]string)
	for _, role := range catalog.Roles() {
		perms, _ := catalog.PermissionsFor(role)
		roles[role] = perms.Keys()
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrAlreadyExists):
		writeError(w, r, http.StatusConflict, "email already registered")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
