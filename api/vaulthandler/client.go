package vaulthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tasknest/vault-backend/api"
)

// Client is a typed HTTP client for the account endpoints. The zero value
// is not usable; construct with NewClient.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates an account client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, Client: http.DefaultClient}
}

// Register creates a new account and returns the vault material the caller
// must retain to recover its private key.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.post(ctx, "/api/register", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and returns session tokens plus the encryption block.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.post(ctx, "/api/login", req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp api.RefreshResponse
	if err := c.post(ctx, "/api/refresh", api.RefreshRequest{Refresh: refreshToken}, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// Me returns the account behind an access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*api.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/me", nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var resp api.UserInfo
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body any, wantStatus int, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, wantStatus, out)
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	httpClient := c.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read server response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not parse server response: %w", err)
	}
	return nil
}
