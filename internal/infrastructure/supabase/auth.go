package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// Llamadas sin estado a GoTrue (/auth/v1). El estado de la sesión vive en AuthSession.

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

type signUpBody struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// signUpResponse GoTrue devuelve el usuario solo o una sesión completa (autoconfirm).
type signUpResponse struct {
	entity.Identity
	AccessToken string           `json:"access_token"`
	User        *entity.Identity `json:"user"`
}

func (c *Client) token(ctx context.Context, grant string, body any) (*entity.Session, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {grant}},
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	var s entity.Session
	if err := decode(resp.body, &s); err != nil {
		return nil, err
	}
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	return &s, nil
}

func (c *Client) signInWithPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	return c.token(ctx, "password", passwordGrant{Email: email, Password: password})
}

func (c *Client) refreshSession(ctx context.Context, refreshToken string) (*entity.Session, error) {
	return c.token(ctx, "refresh_token", refreshGrant{RefreshToken: refreshToken})
}

func (c *Client) signUp(ctx context.Context, email, password string, data map[string]any) (*entity.Identity, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   signUpBody{Email: email, Password: password, Data: data},
	})
	if err != nil {
		return nil, err
	}
	var out signUpResponse
	if err := decode(resp.body, &out); err != nil {
		return nil, err
	}
	if out.User != nil {
		return out.User, nil
	}
	return &out.Identity, nil
}

func (c *Client) logout(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  accessToken,
	})
	return err
}

func (c *Client) recover(ctx context.Context, email, redirectTo string) error {
	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		query:  q,
		body:   map[string]string{"email": email},
	})
	return err
}

func (c *Client) getUser(ctx context.Context, accessToken string) (*entity.Identity, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", token: accessToken})
	if err != nil {
		return nil, err
	}
	var u entity.Identity
	if err := decode(resp.body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) updateUser(ctx context.Context, accessToken string, body any) (*entity.Identity, error) {
	resp, err := c.do(ctx, request{method: http.MethodPut, path: "/auth/v1/user", token: accessToken, body: body})
	if err != nil {
		return nil, err
	}
	var u entity.Identity
	if err := decode(resp.body, &u); err != nil {
		return nil, fmt.Errorf("supabase: usuario actualizado ilegible: %w", err)
	}
	return &u, nil
}
