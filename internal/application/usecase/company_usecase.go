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

// CompanyUseCase directorio y perfiles de empresa.
type CompanyUseCase struct {
	d           Deps
	repo        repository.CompanyRepository
	memberships repository.MembershipRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(d Deps, repo repository.CompanyRepository, memberships repository.MembershipRepository) *CompanyUseCase {
	return &CompanyUseCase{d: d.withDefaults(), repo: repo, memberships: memberships}
}

// List todas las empresas ordenadas por nombre.
func (uc *CompanyUseCase) List(ctx context.Context) query.Result[[]entity.Company] {
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyCompanies), defaultRead, true, uc.repo.List)
}

// Directory aplica búsqueda y filtro de sector sobre el listado.
func (uc *CompanyUseCase) Directory(ctx context.Context, q dto.DirectoryQuery) (dto.DirectoryResponse, error) {
	r := uc.List(ctx)
	if r.Status == query.Failed && r.Data == nil {
		return dto.DirectoryResponse{}, r.Err
	}
	items := FilterDirectory(r.Data, q)
	return dto.DirectoryResponse{Items: items, Total: len(items), Sectors: Sectors(r.Data)}, nil
}

// Get perfil por id. Con id inválido o "new" no hay lectura (Skipped); inexistente es Loaded nil.
func (uc *CompanyUseCase) Get(ctx context.Context, id string) query.Result[*entity.Company] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyCompany, id), detailRead, ValidID(id),
		func(ctx context.Context) (*entity.Company, error) { return uc.repo.GetByID(ctx, id) })
}

// CurrentMembership membresía más reciente de la empresa.
func (uc *CompanyUseCase) CurrentMembership(ctx context.Context, companyID string) query.Result[*entity.Membership] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyCompanyMembership, companyID), detailRead, ValidID(companyID),
		func(ctx context.Context) (*entity.Membership, error) {
			return uc.memberships.CurrentForCompany(ctx, companyID)
		})
}

// Mine empresas del usuario autenticado.
func (uc *CompanyUseCase) Mine(ctx context.Context) query.Result[[]entity.Company] {
	u := uc.d.CurrentUser()
	userID := ""
	if u != nil {
		userID = u.ID
	}
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyMyCompanies, userID), defaultRead, userID != "",
		func(ctx context.Context) ([]entity.Company, error) { return uc.repo.ListByOwner(ctx, userID) })
}

// Create registra la empresa a nombre del usuario autenticado.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CompanyRequest) (*entity.Company, error) {
	u, err := uc.d.user()
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Company created successfully",
		fallback:   "Failed to create company",
		invalidate: []query.Key{entityKey(KeyCompanies), entityKey(KeyMyCompanies)},
	}, func(ctx context.Context) (*entity.Company, error) {
		return uc.repo.Create(ctx, in.Fields(u.ID))
	})
}

// Update edita el perfil. Solo el dueño o un administrador.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*entity.Company, error) {
	if err := uc.authorize(ctx, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return mutate(ctx, uc.d, mutation{
		success:  "Company profile updated successfully",
		fallback: "Failed to update company profile",
		invalidate: []query.Key{
			entityKey(KeyCompanies), scoped(KeyCompany, id), entityKey(KeyMyCompanies),
		},
	}, func(ctx context.Context) (*entity.Company, error) {
		return uc.repo.Update(ctx, id, in.Patch())
	})
}

// Delete elimina la empresa. Solo el dueño o un administrador.
func (uc *CompanyUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.authorize(ctx, id); err != nil {
		return err
	}
	_, err := mutate(ctx, uc.d, mutation{
		success:  "Company deleted successfully",
		fallback: "Failed to delete company",
		invalidate: []query.Key{
			entityKey(KeyCompanies), scoped(KeyCompany, id), entityKey(KeyMyCompanies),
		},
	}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.repo.Delete(ctx, id)
	})
	return err
}

func (uc *CompanyUseCase) authorize(ctx context.Context, id string) error {
	u, err := uc.d.user()
	if err != nil {
		return err
	}
	if !ValidID(id) {
		return domain.ErrNotFound
	}
	r := uc.Get(ctx, id)
	if r.Status == query.Failed {
		return r.Err
	}
	if r.Data == nil {
		return domain.ErrNotFound
	}
	if r.Data.UserID != u.ID && !u.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
