package httpapi

import (
	"errors"
	"net/http"
	"time"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/service"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	switch {
	case errors.Is(err, errInvalidCredentials), errors.Is(err, errAccountInactive):
		writeError(w, http.StatusUnauthorized, err)
		return
	case err != nil:
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.ActorFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": actor})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.auth.ListUsers(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := a.auth.CreateUser(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type userUpdateRequest struct {
	Active   *bool   `json:"active,omitempty"`
	Password *string `json:"password,omitempty"`
}

// handleUpdateUser toggles whitelist access or resets a password. Admins
// cannot lock themselves out.
func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.PathValue("email"))
	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Active == nil && req.Password == nil {
		writeError(w, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	actor, _ := service.ActorFromContext(r.Context())
	if req.Active != nil && !*req.Active && actor.Email == email {
		writeError(w, http.StatusBadRequest, errors.New("cannot deactivate your own account"))
		return
	}

	if req.Password != nil {
		if err := a.auth.ResetPassword(r.Context(), email, *req.Password); err != nil {
			a.writeServiceError(w, r, err)
			return
		}
	}
	if req.Active != nil {
		if err := a.auth.SetUserActive(r.Context(), email, *req.Active); err != nil {
			a.writeServiceError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
