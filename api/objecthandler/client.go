package objecthandler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tasknest/vault-backend/api"
)

// Client is a typed HTTP client for the object endpoints. Every call
// carries the access token obtained at login.
type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewClient creates an object client for the given server and access token.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{BaseURL: baseURL, Token: accessToken, Client: http.DefaultClient}
}

// List returns all of the caller's objects of one type in creation order.
func (c *Client) List(ctx context.Context, objectType string) ([]api.ObjectResponse, error) {
	var resp []api.ObjectResponse
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/objects/%s", objectType), nil, http.StatusOK, &resp)
	return resp, err
}

// Create stores a new ciphertext blob and returns the stored object.
func (c *Client) Create(ctx context.Context, objectType string, ciphertext []byte) (*api.ObjectResponse, error) {
	body := api.ObjectRequest{Ciphertext: base64.StdEncoding.EncodeToString(ciphertext)}
	var resp api.ObjectResponse
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/api/objects/%s", objectType), body, http.StatusCreated, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update replaces an object's ciphertext and returns the updated record.
func (c *Client) Update(ctx context.Context, objectType string, id int64, ciphertext []byte) (*api.ObjectResponse, error) {
	body := api.ObjectRequest{Ciphertext: base64.StdEncoding.EncodeToString(ciphertext)}
	var resp api.ObjectResponse
	err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/objects/%s/%d", objectType, id), body, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, objectType string, id int64) error {
	var resp api.StatusResponse
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/objects/%s/%d", objectType, id), nil, http.StatusOK, &resp)
}

func (c *Client) call(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read server response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not parse server response: %w", err)
	}
	return nil
}
