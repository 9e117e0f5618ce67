package vaulthandler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/vault-backend/api"
	"github.com/tasknest/vault-backend/auth"
	"github.com/tasknest/vault-backend/interfaces"
	"github.com/tasknest/vault-backend/metrics"
	"github.com/tasknest/vault-backend/vault"
)

// Handler processes account HTTP requests. Register and login hand the
// client its wrapped key material together with the KDF parameters needed
// to re-derive the wrap key; the refresh and me endpoints manage the
// session that was minted at login.
type Handler struct {
	service *vault.Service
	users   interfaces.UserStore
	issuer  *auth.TokenIssuer
	log     *slog.Logger
}

// NewHandler creates an account handler with the given dependencies.
func NewHandler(service *vault.Service, users interfaces.UserStore, issuer *auth.TokenIssuer, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		users:   users,
		issuer:  issuer,
		log:     log,
	}
}

// RegisterRoutes mounts the public account endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/register", h.HandleRegister)
	r.Post("/api/login", h.HandleLogin)
	r.Post("/api/refresh", h.HandleRefresh)
}

// RegisterAuthenticatedRoutes mounts endpoints that require a valid access
// token. The caller wraps the router with auth.Middleware.
func (h *Handler) RegisterAuthenticatedRoutes(r chi.Router) {
	r.Get("/api/me", h.HandleMe)
}

// HandleRegister creates a user account with a fully provisioned vault.
//
// URL format: POST /api/register
// Request body: JSON with username, email, and password.
//
// Response: 201 with the KDF parameters, the wrapped private key, and the
// wrap nonce, all base64. The client must derive the wrap key locally to
// recover the private key; the server cannot.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, fmt.Errorf("%w: %s", interfaces.ErrInvalidParameter, err))
		return
	}

	reg, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	metrics.RegistrationsTotal.Inc()

	resp := api.RegisterResponse{
		Message:             "registration successful",
		KDFSalt:             base64.StdEncoding.EncodeToString(reg.Vault.KDFSalt),
		KDFIterations:       reg.Vault.KDFIterations,
		PublicKey:           base64.StdEncoding.EncodeToString(reg.Vault.PublicKey),
		EncryptedPrivateKey: base64.StdEncoding.EncodeToString(reg.Vault.EncryptedPrivateKey),
		IV:                  base64.StdEncoding.EncodeToString(reg.Nonce),
	}
	if err := api.WriteJSON(w, http.StatusCreated, resp); err != nil {
		h.log.Error("Failed to encode register response", "err", err)
	}
}

// HandleLogin authenticates a username/password pair.
//
// URL format: POST /api/login
//
// Response: 200 with the user identity, an access/refresh token pair, and
// the encryption block stored at registration. Unknown usernames and wrong
// passwords both get the same 401 body.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, fmt.Errorf("%w: %s", interfaces.ErrInvalidParameter, err))
		return
	}

	user, record, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		api.WriteError(w, err)
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	pair, err := h.issuer.IssuePair(user.ID)
	if err != nil {
		h.log.Error("Failed to issue token pair", "userID", user.ID, "err", err)
		api.WriteError(w, err)
		return
	}

	resp := api.LoginResponse{
		User: api.UserInfo{
			ID:       int64(user.ID),
			Username: user.Username,
			Email:    user.Email,
		},
		Access:  pair.Access,
		Refresh: pair.Refresh,
		Encryption: api.EncryptionInfo{
			KDFSalt:             base64.StdEncoding.EncodeToString(record.KDFSalt),
			KDFIterations:       record.KDFIterations,
			PublicKey:           base64.StdEncoding.EncodeToString(record.PublicKey),
			EncryptedPrivateKey: base64.StdEncoding.EncodeToString(record.EncryptedPrivateKey),
		},
	}
	if err := api.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("Failed to encode login response", "err", err)
	}
}

// HandleRefresh exchanges a refresh token for a new access token.
//
// URL format: POST /api/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, fmt.Errorf("%w: %s", interfaces.ErrInvalidParameter, err))
		return
	}

	access, err := h.issuer.Refresh(req.Refresh)
	if err != nil {
		api.WriteError(w, fmt.Errorf("%w: %s", interfaces.ErrInvalidCredentials, "invalid refresh token"))
		return
	}

	if err := api.WriteJSON(w, http.StatusOK, api.RefreshResponse{Access: access}); err != nil {
		h.log.Error("Failed to encode refresh response", "err", err)
	}
}

// HandleMe returns the authenticated account.
//
// URL format: GET /api/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		api.WriteError(w, interfaces.ErrInvalidCredentials)
		return
	}

	user, err := h.users.UserByID(r.Context(), userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	resp := api.UserInfo{
		ID:       int64(user.ID),
		Username: user.Username,
		Email:    user.Email,
	}
	if err := api.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("Failed to encode me response", "err", err)
	}
}
