package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"umrahcrm/config"
	otelMocks "umrahcrm/infras/otel/mocks"
	"umrahcrm/permissions"
	"umrahcrm/shared/cache"
	transport "umrahcrm/transport/http"
	"umrahcrm/transport/http/middleware"
	"umrahcrm/transport/http/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "umrahcrm-test"
	cfg.Server.Env = "development"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"

	otel := otelMocks.NewOtel()

	perms, err := permissions.Parse([]byte(`{"endpoints": []}`))
	require.NoError(t, err)

	authRole := middleware.NewAuthRoleMiddleware(nil, otel, perms, cfg)
	appMiddleware := middleware.NewAppMiddleware(otel, cfg, cache.NewRedisCache(nil, otel))

	return transport.New(cfg, router.New(router.DomainHandlers{}, authRole), appMiddleware)
}

func TestHealth(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"OK"}`, rec.Body.String())
	assert.Equal(t, transport.ServerStateReady, server.State())
}

func TestSwaggerDoc(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/leads/{id}/voucher/accept")
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leads", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	server := newServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- server.Serve(ctx) }()

	require.Eventually(t, func() bool { return server.State() == transport.ServerStateReady }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
