package supabase

import (
	"context"
	"errors"

	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

const applicationColumns = "*, company:companies(name)"

// ApplicationRepo tabla membership_applications.
type ApplicationRepo struct {
	rest
}

// NewApplicationRepository construye el adaptador.
func NewApplicationRepository(c *Client, tokens TokenSource) *ApplicationRepo {
	return &ApplicationRepo{rest{c: c, tokens: tokens}}
}

func (r *ApplicationRepo) List(ctx context.Context) ([]entity.MembershipApplication, error) {
	return list[entity.MembershipApplication](ctx, r.from(ctx, "membership_applications").
		Select(applicationColumns).
		Order("created_at", false))
}

func (r *ApplicationRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.MembershipApplication, error) {
	return list[entity.MembershipApplication](ctx, r.from(ctx, "membership_applications").
		Select(applicationColumns).
		Eq("company_id", companyID).
		Order("created_at", false))
}

func (r *ApplicationRepo) Create(ctx context.Context, in entity.ApplicationFields) (*entity.MembershipApplication, error) {
	return single[entity.MembershipApplication](ctx, r.from(ctx, "membership_applications").Insert(in).Select(applicationColumns))
}

// Review actualiza solo si status sigue en pending; la condición viaja en el filtro
// para que dos revisiones concurrentes no se pisen.
func (r *ApplicationRepo) Review(ctx context.Context, id string, review entity.ApplicationReview) (*entity.MembershipApplication, error) {
	out, err := single[entity.MembershipApplication](ctx, r.from(ctx, "membership_applications").
		Update(review).
		Eq("id", id).
		Eq("status", entity.ApplicationPending).
		Select(applicationColumns))
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	existing, err := first[entity.MembershipApplication](ctx, r.from(ctx, "membership_applications").Select("id,status").Eq("id", id))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrConflict
}
