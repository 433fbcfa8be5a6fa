package client

import (
	"context"
	"net/http"

	"github.com/jwalitptl/admin-console/internal/model"
)

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	return c.do(ctx, "auth.register", http.MethodPost, "/auth/register", nil, req, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	return c.do(ctx, "auth.forgot_password", http.MethodPost, "/auth/forgot-password", nil, req, nil)
}

// Me returns the profile of the doctor the current token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "auth.me", http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
