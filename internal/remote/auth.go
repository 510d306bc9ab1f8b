package remote

import (
	"context"
	"net/http"

	"todoTracker/internal/form"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/session"
)

func (c *Client) SignUp(ctx context.Context, fields form.SignUpFields) (*session.Identity, error) {
	var resp dto.SessionResponse
	req := dto.SignUpRequest{Name: fields.Name, Email: fields.Email, Password: fields.Password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp, false); err != nil {
		return nil, err
	}
	return resp.ToIdentity(), nil
}

func (c *Client) SignIn(ctx context.Context, fields form.SignInFields) (*session.Identity, error) {
	var resp dto.SessionResponse
	req := dto.SignInRequest{Email: fields.Email, Password: fields.Password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, &resp, false); err != nil {
		return nil, err
	}
	return resp.ToIdentity(), nil
}

// SignOut завершает текущую сессию на сервере
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil, true)
}
