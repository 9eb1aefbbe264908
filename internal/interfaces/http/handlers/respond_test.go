// internal/interfaces/http/handlers/respond_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/config"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
)

type memStore struct {
	states map[string]*session.State
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*session.State)}
}

func (m *memStore) Put(ctx context.Context, sessionID string, state *session.State, ttl time.Duration) error {
	m.states[sessionID] = state
	return nil
}

func (m *memStore) Get(ctx context.Context, sessionID string) (*session.State, error) {
	state, ok := m.states[sessionID]
	if !ok {
		return nil, session.ErrNotFound
	}
	return state, nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.states, sessionID)
	return nil
}

// proxyFixture wires a real upstream client against an httptest server
// behind an authenticated proxied route
type proxyFixture struct {
	router        *gin.Engine
	store         *memStore
	token         string
	closeUpstream func()
}

func newProxyFixture(t *testing.T, upstream http.Handler) *proxyFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.App.Name = "pos-terminal"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.SessionExpiry = time.Hour
	cfg.Backend.BaseURL = server.URL
	cfg.Backend.Timeout = 5 * time.Second

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	jwtManager := auth.NewJWTManager(cfg)
	client := backend.NewClient(cfg, logger)

	store := newMemStore()
	store.states["sess-1"] = &session.State{UserID: 1, Name: "Kasir", Role: "admin", Token: "upstream-token"}
	sessions := session.NewService(client, store, jwtManager, logger, time.Hour)

	token, err := jwtManager.GenerateSessionToken("sess-1", "Kasir", "admin")
	require.NoError(t, err)

	dashboardHandler := NewDashboardHandler(client, sessions)

	router := gin.New()
	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(jwtManager, sessions))
	authed.GET("/dashboard", dashboardHandler.Summary)

	return &proxyFixture{router: router, store: store, token: token, closeUpstream: server.Close}
}

func (f *proxyFixture) request(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	f.router.ServeHTTP(w, req)
	return w
}

func TestUpstreamUnauthorizedDestroysSession(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Unauthenticated",
		})
	}))

	w := f.request(http.MethodGet, "/dashboard")

	// The terminal is told to route back to login
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Session expired", body["error"])
	assert.Equal(t, true, body["logged_out"])

	// The stored session is gone, so the token no longer resolves
	assert.NotContains(t, f.store.states, "sess-1")

	w = f.request(http.MethodGet, "/dashboard")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"logged_out":true`)
}

func TestUpstreamErrorKeepsSession(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Validation failed",
		})
	}))

	w := f.request(http.MethodGet, "/dashboard")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	assert.Contains(t, f.store.states, "sess-1")
}

func TestUpstreamDownAnswersBadGateway(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	f.closeUpstream()

	w := f.request(http.MethodGet, "/dashboard")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Upstream request failed")
	// A transport failure is not a session-invalid signal
	assert.Contains(t, f.store.states, "sess-1")
}
