package usecase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// OpportunityUseCase oportunidades de negocio.
type OpportunityUseCase struct {
	d         Deps
	repo      repository.OpportunityRepository
	companies repository.CompanyRepository
}

// NewOpportunityUseCase construye el caso de uso.
func NewOpportunityUseCase(d Deps, repo repository.OpportunityRepository, companies repository.CompanyRepository) *OpportunityUseCase {
	return &OpportunityUseCase{d: d.withDefaults(), repo: repo, companies: companies}
}

// List oportunidades con la empresa que publica.
func (uc *OpportunityUseCase) List(ctx context.Context) query.Result[[]entity.BusinessOpportunity] {
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyOpportunities), defaultRead, true, uc.repo.List)
}

// Get detalle por id.
func (uc *OpportunityUseCase) Get(ctx context.Context, id string) query.Result[*entity.BusinessOpportunity] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyOpportunity, id), detailRead, ValidID(id),
		func(ctx context.Context) (*entity.BusinessOpportunity, error) { return uc.repo.GetByID(ctx, id) })
}

// Create publica una oportunidad en nombre de una empresa del usuario (o cualquiera, si es admin).
func (uc *OpportunityUseCase) Create(ctx context.Context, in dto.OpportunityRequest) (*entity.BusinessOpportunity, error) {
	u, err := uc.d.user()
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	deadline, err := entity.ParseDate(in.Deadline)
	if err != nil {
		return nil, domain.Field("deadline", "must be a date in format 2006-01-02")
	}
	if !u.IsAdmin() {
		if err := uc.ownsCompany(ctx, u.ID, in.CompanyID); err != nil {
			return nil, err
		}
	}
	fields := entity.OpportunityFields{
		Title:           in.Title,
		Description:     in.Description,
		OpportunityType: in.OpportunityType,
		Sector:          in.Sector,
		Deadline:        deadline,
		BudgetRange:     in.BudgetRange,
		Requirements:    in.Requirements,
		ContactEmail:    in.ContactEmail,
		ContactPhone:    in.ContactPhone,
		CompanyID:       &in.CompanyID,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Business opportunity created successfully",
		fallback:   "Failed to create business opportunity",
		invalidate: []query.Key{entityKey(KeyOpportunities)},
	}, func(ctx context.Context) (*entity.BusinessOpportunity, error) { return uc.repo.Create(ctx, fields) })
}

func (uc *OpportunityUseCase) ownsCompany(ctx context.Context, userID, companyID string) error {
	owned, err := uc.companies.ListByOwner(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range owned {
		if c.ID == companyID {
			return nil
		}
	}
	return domain.Field("company_id", "must be one of your companies")
}

// Update edita una oportunidad (la empresa que publica o un admin; RLS decide en el backend).
func (uc *OpportunityUseCase) Update(ctx context.Context, id string, in dto.UpdateOpportunityRequest) (*entity.BusinessOpportunity, error) {
	if _, err := uc.d.user(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	deadline, err := optionalDate(in.Deadline)
	if err != nil {
		return nil, domain.Field("deadline", "must be a date in format 2006-01-02")
	}
	patch := entity.OpportunityPatch{
		Title:           in.Title,
		Description:     in.Description,
		OpportunityType: in.OpportunityType,
		Sector:          in.Sector,
		Deadline:        deadline,
		BudgetRange:     in.BudgetRange,
		Requirements:    in.Requirements,
		ContactEmail:    in.ContactEmail,
		ContactPhone:    in.ContactPhone,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Business opportunity updated successfully",
		fallback:   "Failed to update business opportunity",
		invalidate: []query.Key{entityKey(KeyOpportunities), scoped(KeyOpportunity, id)},
	}, func(ctx context.Context) (*entity.BusinessOpportunity, error) { return uc.repo.Update(ctx, id, patch) })
}

// Delete elimina una oportunidad.
func (uc *OpportunityUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.d.user(); err != nil {
		return err
	}
	if !ValidID(id) {
		return domain.ErrNotFound
	}
	_, err := mutate(ctx, uc.d, mutation{
		success:    "Business opportunity deleted successfully",
		fallback:   "Failed to delete business opportunity",
		invalidate: []query.Key{entityKey(KeyOpportunities), scoped(KeyOpportunity, id)},
	}, func(ctx context.Context) (struct{}, error) { return struct{}{}, uc.repo.Delete(ctx, id) })
	return err
}
