package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openshelf/openshelf/internal/catalog/model"
)

// Login posts credentials to the login endpoint. A nil result with no error
// means the server answered success without issuing a token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthData, error) {
	return c.authCall(ctx, "/auth/login", req)
}

// Register posts a registration payload. Token semantics match Login.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthData, error) {
	return c.authCall(ctx, "/auth/register", req)
}

// Logout invalidates the current session server-side. Callers treat the
// outcome as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

func (c *Client) authCall(ctx context.Context, path string, payload any) (*model.AuthData, error) {
	env, err := c.request(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var data model.AuthData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode auth data: %w", err)
	}
	return &data, nil
}
