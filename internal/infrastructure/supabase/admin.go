package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.UserAdmin = (*AdminUsers)(nil)

// AdminUsers administración de usuarios vía /auth/v1/admin con la clave de servicio.
type AdminUsers struct {
	c *Client
}

// NewAdminUsers construye el adaptador. Sin clave de servicio toda operación falla con ErrMissingConfig.
func NewAdminUsers(c *Client) *AdminUsers {
	return &AdminUsers{c: c}
}

type adminCreateBody struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (a *AdminUsers) call(ctx context.Context, method, path string, body any) (*response, error) {
	if !a.c.HasServiceRole() {
		return nil, fmt.Errorf("%w: SUPABASE_SERVICE_ROLE_KEY", domain.ErrMissingConfig)
	}
	return a.c.do(ctx, request{
		method: method,
		path:   path,
		body:   body,
		token:  a.c.serviceKey,
		apikey: a.c.serviceKey,
	})
}

// CreateUser alta con email confirmado y metadatos de perfil y rol.
func (a *AdminUsers) CreateUser(ctx context.Context, in repository.NewUser) (*entity.Identity, error) {
	resp, err := a.call(ctx, http.MethodPost, "/auth/v1/admin/users", adminCreateBody{
		Email:        in.Email,
		Password:     in.Password,
		EmailConfirm: true,
		UserMetadata: map[string]any{
			"first_name": in.Profile.FirstName,
			"last_name":  in.Profile.LastName,
			"phone":      in.Profile.Phone,
			"role":       string(in.Role),
		},
	})
	if err != nil {
		return nil, err
	}
	var u entity.Identity
	if err := decode(resp.body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateRole cambia user_metadata.role; el resto de metadatos se conserva.
func (a *AdminUsers) UpdateRole(ctx context.Context, userID string, role entity.Role) (*entity.Identity, error) {
	resp, err := a.call(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(userID), map[string]any{
		"user_metadata": map[string]any{"role": string(role)},
	})
	if err != nil {
		return nil, err
	}
	var u entity.Identity
	if err := decode(resp.body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser elimina el usuario del proveedor de identidad.
func (a *AdminUsers) DeleteUser(ctx context.Context, userID string) error {
	_, err := a.call(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(userID), nil)
	return err
}
