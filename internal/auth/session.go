// Package auth keeps the signed-in user's tokens and profile snapshot in
// the persisted store. Token issuance and validation belong to the
// backend; this side only stores what it was handed.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/store"
)

// Persisted-store keys. The cart lives under its own key next to these.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	userKey         = "user"
)

// Authenticator is the slice of the remote API the session needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Session holds the current credentials in memory, mirrored into the
// persisted store so a restart keeps the user signed in.
// Its Token method satisfies the API client's TokenSource.
type Session struct {
	mu           sync.Mutex
	api          Authenticator
	store        store.Store
	logger       *slog.Logger
	accessToken  string
	refreshToken string
	user         *domain.User
}

// NewSession creates a signed-out session backed by st. The authenticator
// is attached separately because the API client itself needs the session
// as its token source.
func NewSession(st store.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:  st,
		logger: logger,
	}
}

// Attach wires the remote authenticator. Must run before Login/Refresh.
func (s *Session) Attach(api Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// Load restores a previous session from the store. A missing or corrupt
// entry means signed out, never an error.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, err := s.store.Get(ctx, accessTokenKey)
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return err
	}
	s.accessToken = access

	if refresh, err := s.store.Get(ctx, refreshTokenKey); err == nil {
		s.refreshToken = refresh
	}

	if raw, err := s.store.Get(ctx, userKey); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			s.logger.Warn("discarding corrupt persisted user profile", slog.String("error", err.Error()))
		} else {
			s.user = &user
		}
	}

	return nil
}

// Login authenticates against the backend and persists the session.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	api := s.api
	s.mu.Unlock()
	if api == nil {
		return nil, domain.Internal(nil, "auth.login", "no authenticator attached")
	}

	result, err := api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = result.AccessToken
	s.refreshToken = result.RefreshToken
	s.user = &result.User

	if err := s.store.Set(ctx, accessTokenKey, result.AccessToken); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, refreshTokenKey, result.RefreshToken); err != nil {
		return nil, err
	}
	profile, err := json.Marshal(result.User)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, userKey, string(profile)); err != nil {
		return nil, err
	}

	return s.user, nil
}

// Refresh rotates the access token using the persisted refresh token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	api := s.api
	refresh := s.refreshToken
	s.mu.Unlock()

	if api == nil {
		return domain.Internal(nil, "auth.refresh", "no authenticator attached")
	}
	if refresh == "" {
		return domain.Unauthorized("auth.refresh", "no refresh token")
	}

	access, err := api.Refresh(ctx, refresh)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = access
	return s.store.Set(ctx, accessTokenKey, access)
}

// Logout drops the session from memory and the store.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil

	for _, key := range []string{accessTokenKey, refreshTokenKey, userKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Token returns the current access token, empty when signed out.
// Implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// User returns the cached profile snapshot, nil when signed out.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}
