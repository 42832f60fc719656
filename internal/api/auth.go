package api

import (
	"context"
	"encoding/json"
	"net/http"

	"subtrack/internal/models"
)

// SignUp creates a new user account. The body is returned as sent by the server.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/sign-up", req)
}

// SignIn authenticates an existing user. The body is returned as sent by the server.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/sign-in", creds)
}
