package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/vault-backend/interfaces"
)

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer([]byte("test-secret"), "vault-backend")
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(nil, "vault-backend")
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)
}

func TestIssueAndVerifyPair(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.IssuePair(7)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	user, err := issuer.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, interfaces.UserID(7), user)
}

func TestVerifyRejectsRefreshAsAccess(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.IssuePair(7)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshMintsNewAccess(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.IssuePair(7)
	require.NoError(t, err)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)

	user, err := issuer.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, interfaces.UserID(7), user)

	// access tokens cannot be used to refresh
	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewTokenIssuer([]byte("other-secret"), "vault-backend")
	require.NoError(t, err)

	pair, err := other.IssuePair(7)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	issuer := newTestIssuer(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotUser interfaces.UserID
	handler := Middleware(issuer, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := FromContext(r.Context())
		require.True(t, ok)
		gotUser = user
		w.WriteHeader(http.StatusOK)
	}))

	// no header
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// garbage token
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	pair, err := issuer.IssuePair(42)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, interfaces.UserID(42), gotUser)
}
