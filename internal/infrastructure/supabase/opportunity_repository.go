package supabase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var _ repository.OpportunityRepository = (*OpportunityRepo)(nil)

const opportunityColumns = "*, company:companies(*)"

// OpportunityRepo tabla business_opportunities.
type OpportunityRepo struct {
	rest
}

// NewOpportunityRepository construye el adaptador.
func NewOpportunityRepository(c *Client, tokens TokenSource) *OpportunityRepo {
	return &OpportunityRepo{rest{c: c, tokens: tokens}}
}

func (r *OpportunityRepo) List(ctx context.Context) ([]entity.BusinessOpportunity, error) {
	return list[entity.BusinessOpportunity](ctx, r.from(ctx, "business_opportunities").
		Select(opportunityColumns).
		Order("created_at", false))
}

func (r *OpportunityRepo) GetByID(ctx context.Context, id string) (*entity.BusinessOpportunity, error) {
	return one[entity.BusinessOpportunity](ctx, r.from(ctx, "business_opportunities").Select(opportunityColumns).Eq("id", id))
}

func (r *OpportunityRepo) Create(ctx context.Context, in entity.OpportunityFields) (*entity.BusinessOpportunity, error) {
	return single[entity.BusinessOpportunity](ctx, r.from(ctx, "business_opportunities").Insert(in).Select(opportunityColumns))
}

func (r *OpportunityRepo) Update(ctx context.Context, id string, patch entity.OpportunityPatch) (*entity.BusinessOpportunity, error) {
	return single[entity.BusinessOpportunity](ctx, r.from(ctx, "business_opportunities").
		Update(patch).
		Eq("id", id).
		Select(opportunityColumns))
}

func (r *OpportunityRepo) Delete(ctx context.Context, id string) error {
	return r.from(ctx, "business_opportunities").Delete().Eq("id", id).Execute(ctx, nil)
}
