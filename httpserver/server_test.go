package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/vault-backend/api/objecthandler"
	"github.com/tasknest/vault-backend/api/vaulthandler"
	"github.com/tasknest/vault-backend/auth"
	"github.com/tasknest/vault-backend/cryptoutils"
	"github.com/tasknest/vault-backend/storage"
	"github.com/tasknest/vault-backend/vault"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.Open("sqlite://:memory:", log)
	require.NoError(t, err)

	service, err := vault.NewService(store, cryptoutils.MinIterations, log)
	require.NoError(t, err)

	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), "vault-backend")
	require.NoError(t, err)

	accounts := vaulthandler.NewHandler(service, store, issuer, log)
	objects := objecthandler.NewHandler(store, log)

	srv, err := New(&HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      log,
		DrainDuration:            10 * time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}, accounts, objects, issuer)
	require.NoError(t, err)
	return srv
}

func TestLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	router := srv.getRouter()

	get := func(path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/livez"))
	assert.Equal(t, http.StatusOK, get("/readyz"))

	assert.Equal(t, http.StatusOK, get("/drain"))
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz"))
	// draining while drained is not an error
	assert.Equal(t, http.StatusOK, get("/drain"))

	assert.Equal(t, http.StatusOK, get("/undrain"))
	assert.Equal(t, http.StatusOK, get("/readyz"))
}

func TestRouterProtectsObjectRoutes(t *testing.T) {
	srv := newTestServer(t)
	router := srv.getRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/objects/task", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterServesPublicRoutes(t *testing.T) {
	srv := newTestServer(t)
	router := srv.getRouter()

	// malformed body still reaches the handler
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/register", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
