package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore implements store.Store for testing
type mockStore struct {
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", store.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockStore) Close() error { return nil }

// mockAuthenticator implements Authenticator for testing
type mockAuthenticator struct {
	LoginFunc   func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthenticator) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.LoginResult{}, nil
}

func (m *mockAuthenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return "", nil
}

func loginResult() *domain.LoginResult {
	return &domain.LoginResult{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: domain.User{
			ID:    7,
			Email: "reader@example.com",
		},
	}
}

func TestSession_LoginPersists(t *testing.T) {
	st := newMockStore()
	session := NewSession(st, nil)
	session.Attach(&mockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return loginResult(), nil
		},
	})

	user, err := session.Login(context.Background(), "reader@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "access-1", session.Token())

	assert.Equal(t, "access-1", st.data["access_token"])
	assert.Equal(t, "refresh-1", st.data["refresh_token"])
	assert.Contains(t, st.data["user"], "reader@example.com")
}

func TestSession_LoadRestoresPersistedSession(t *testing.T) {
	st := newMockStore()
	ctx := context.Background()

	first := NewSession(st, nil)
	first.Attach(&mockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return loginResult(), nil
		},
	})
	_, err := first.Login(ctx, "reader@example.com", "hunter2secret")
	require.NoError(t, err)

	// A restart sees the same signed-in user
	second := NewSession(st, nil)
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, "access-1", second.Token())
	require.NotNil(t, second.User())
	assert.Equal(t, "reader@example.com", second.User().Email)
}

func TestSession_LoadMissingMeansSignedOut(t *testing.T) {
	session := NewSession(newMockStore(), nil)

	require.NoError(t, session.Load(context.Background()))
	assert.Empty(t, session.Token())
	assert.Nil(t, session.User())
}

func TestSession_LoadCorruptProfile(t *testing.T) {
	st := newMockStore()
	st.data["access_token"] = "access-1"
	st.data["user"] = "{not json"

	session := NewSession(st, nil)
	require.NoError(t, session.Load(context.Background()))

	// The token survives, the unreadable profile is dropped
	assert.Equal(t, "access-1", session.Token())
	assert.Nil(t, session.User())
}

func TestSession_RefreshRotatesAccessToken(t *testing.T) {
	st := newMockStore()
	session := NewSession(st, nil)
	session.Attach(&mockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return loginResult(), nil
		},
		RefreshFunc: func(ctx context.Context, refreshToken string) (string, error) {
			assert.Equal(t, "refresh-1", refreshToken)
			return "access-2", nil
		},
	})
	ctx := context.Background()

	_, err := session.Login(ctx, "reader@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, session.Refresh(ctx))
	assert.Equal(t, "access-2", session.Token())
	assert.Equal(t, "access-2", st.data["access_token"])
}

func TestSession_RefreshWithoutToken(t *testing.T) {
	session := NewSession(newMockStore(), nil)
	session.Attach(&mockAuthenticator{})

	err := session.Refresh(context.Background())
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	st := newMockStore()
	session := NewSession(st, nil)
	session.Attach(&mockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return loginResult(), nil
		},
	})
	ctx := context.Background()

	_, err := session.Login(ctx, "reader@example.com", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, session.Logout(ctx))
	assert.Empty(t, session.Token())
	assert.Nil(t, session.User())
	assert.Empty(t, st.data)
}
