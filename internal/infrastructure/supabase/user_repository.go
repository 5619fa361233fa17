package supabase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo vista public.users.
type UserRepo struct {
	rest
}

// NewUserRepository construye el adaptador.
func NewUserRepository(c *Client, tokens TokenSource) *UserRepo {
	return &UserRepo{rest{c: c, tokens: tokens}}
}

func (r *UserRepo) List(ctx context.Context) ([]entity.UserRecord, error) {
	return list[entity.UserRecord](ctx, r.from(ctx, "users").Select("*").Order("created_at", false))
}

func (r *UserRepo) EmailsByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := list[entity.UserRef](ctx, r.from(ctx, "users").Select("id,email").In("id", ids))
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u.Email
	}
	return out, nil
}
