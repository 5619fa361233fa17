package supabase

import (
	"context"
	"fmt"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación PostgREST del puerto CompanyRepository.
type CompanyRepo struct {
	rest
}

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(c *Client, tokens TokenSource) *CompanyRepo {
	return &CompanyRepo{rest{c: c, tokens: tokens}}
}

func (r *CompanyRepo) List(ctx context.Context) ([]entity.Company, error) {
	out, err := list[entity.Company](ctx, r.from(ctx, "companies").Select("*").Order("name", true))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return out, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return one[entity.Company](ctx, r.from(ctx, "companies").Select("*").Eq("id", id))
}

func (r *CompanyRepo) ListByOwner(ctx context.Context, userID string) ([]entity.Company, error) {
	return list[entity.Company](ctx, r.from(ctx, "companies").Select("*").Eq("user_id", userID).Order("name", true))
}

func (r *CompanyRepo) Create(ctx context.Context, in entity.CompanyFields) (*entity.Company, error) {
	return single[entity.Company](ctx, r.from(ctx, "companies").Insert(in).Select("*"))
}

func (r *CompanyRepo) Update(ctx context.Context, id string, patch entity.CompanyPatch) (*entity.Company, error) {
	return single[entity.Company](ctx, r.from(ctx, "companies").Update(patch).Eq("id", id).Select("*"))
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	return r.from(ctx, "companies").Delete().Eq("id", id).Execute(ctx, nil)
}
