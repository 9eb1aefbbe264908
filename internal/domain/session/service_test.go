// internal/domain/session/service_test.go
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/config"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
)

type fakeBackend struct {
	loginResult *backend.LoginResult
	loginErr    error

	logoutCalls int
	logoutToken string
	logoutErr   error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeBackend) Logout(ctx context.Context, token string) error {
	f.logoutCalls++
	f.logoutToken = token
	return f.logoutErr
}

func (f *fakeBackend) Me(ctx context.Context, token string) (*backend.User, error) {
	return &backend.User{ID: 1, Name: "Kasir"}, nil
}

// memStore is an in-memory Store for tests
type memStore struct {
	states map[string]*State
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*State)}
}

func (m *memStore) Put(ctx context.Context, sessionID string, state *State, ttl time.Duration) error {
	m.states[sessionID] = state
	return nil
}

func (m *memStore) Get(ctx context.Context, sessionID string) (*State, error) {
	state, ok := m.states[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return state, nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.states, sessionID)
	return nil
}

func newTestService(b *fakeBackend, store Store) (*Service, *auth.JWTManager) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.SessionExpiry = time.Hour

	jwtManager := auth.NewJWTManager(cfg)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewService(b, store, jwtManager, logger, time.Hour), jwtManager
}

func TestLoginStoresUpstreamTokenServerSide(t *testing.T) {
	b := &fakeBackend{
		loginResult: &backend.LoginResult{
			Token: "upstream-secret",
			User:  backend.User{ID: 7, Name: "Kasir", Email: "kasir@toko.id", Role: "cashier"},
		},
	}
	store := newMemStore()
	svc, jwtManager := newTestService(b, store)

	resp, err := svc.Login(context.Background(), "kasir@toko.id", "rahasia")
	require.NoError(t, err)

	// The terminal gets a local JWT, never the upstream token
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, "upstream-secret", resp.Token)
	assert.Equal(t, uint(7), resp.User.ID)

	claims, err := jwtManager.ValidateSessionToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Kasir", claims.Name)
	assert.Equal(t, "cashier", claims.Role)

	state, err := store.Get(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "upstream-secret", state.Token)
	assert.Equal(t, "cashier", state.Role)
}

func TestLoginPropagatesUpstreamRejection(t *testing.T) {
	b := &fakeBackend{loginErr: backend.ErrUnauthorized}
	svc, _ := newTestService(b, newMemStore())

	_, err := svc.Login(context.Background(), "kasir@toko.id", "salah")
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestResolveReturnsStoredSession(t *testing.T) {
	b := &fakeBackend{
		loginResult: &backend.LoginResult{
			Token: "upstream-secret",
			User:  backend.User{ID: 7, Name: "Kasir", Role: "cashier"},
		},
	}
	store := newMemStore()
	svc, jwtManager := newTestService(b, store)

	resp, err := svc.Login(context.Background(), "kasir@toko.id", "rahasia")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateSessionToken(resp.Token)
	require.NoError(t, err)

	sess, err := svc.Resolve(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, sess.ID)
	assert.Equal(t, "upstream-secret", sess.Token)
	assert.Equal(t, "cashier", sess.User.Role)
}

func TestResolveUnknownSession(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{}, newMemStore())

	_, err := svc.Resolve(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutRevokesUpstreamAndDestroys(t *testing.T) {
	b := &fakeBackend{
		loginResult: &backend.LoginResult{Token: "upstream-secret", User: backend.User{ID: 7}},
	}
	store := newMemStore()
	svc, jwtManager := newTestService(b, store)

	resp, err := svc.Login(context.Background(), "kasir@toko.id", "rahasia")
	require.NoError(t, err)
	claims, _ := jwtManager.ValidateSessionToken(resp.Token)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))

	assert.Equal(t, 1, b.logoutCalls)
	assert.Equal(t, "upstream-secret", b.logoutToken)

	_, err = svc.Resolve(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutDestroysEvenWhenUpstreamFails(t *testing.T) {
	b := &fakeBackend{
		loginResult: &backend.LoginResult{Token: "upstream-secret", User: backend.User{ID: 7}},
		logoutErr:   errors.New("upstream down"),
	}
	store := newMemStore()
	svc, jwtManager := newTestService(b, store)

	resp, err := svc.Login(context.Background(), "kasir@toko.id", "rahasia")
	require.NoError(t, err)
	claims, _ := jwtManager.ValidateSessionToken(resp.Token)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))

	_, err = svc.Resolve(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDestroyRemovesSession(t *testing.T) {
	store := newMemStore()
	store.states["s1"] = &State{UserID: 1, Token: "tok"}
	svc, _ := newTestService(&fakeBackend{}, store)

	require.NoError(t, svc.Destroy(context.Background(), "s1"))
	_, err := svc.Resolve(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
