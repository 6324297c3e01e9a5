package apiclient

import (
	"context"
	"net/http"

	"github.com/stemsi/exstem-client/internal/model"
)

// Login exchanges a username and password for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The backend signs the new account in.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
