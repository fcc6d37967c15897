package handler

import (
	"context"
	"net/http"

	"github.com/dukerupert/chapters/internal/auth"
	"github.com/dukerupert/chapters/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ProfileFetcher fetches the signed-in user's profile from the backend.
type ProfileFetcher interface {
	Me(ctx context.Context) (*domain.User, error)
}

// AuthHandler exposes the session over HTTP: login, logout, token refresh
// and the current-user snapshot.
type AuthHandler struct {
	session  *auth.Session
	profile  ProfileFetcher
	validate *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(session *auth.Session, profile ProfileFetcher, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		session:  session,
		profile:  profile,
		validate: validate,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /refresh: rotates the access token using the
// persisted refresh token. The UI calls this after a 401.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Refresh(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me. The cached snapshot answers when present; a signed-in
// session without one (cleared snapshot, fresh device) fetches live.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if h.session.Token() == "" {
		respondError(w, r, domain.Unauthorized("auth.me", "not signed in"))
		return
	}

	user := h.session.User()
	if user == nil {
		fetched, err := h.profile.Me(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		user = fetched
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
