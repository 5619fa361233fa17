package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// ErrCompanyRequired el usuario no tiene perfil de empresa.
var ErrCompanyRequired = fmt.Errorf("%w: please create a company profile first", domain.ErrConflict)

// ApplicationUseCase solicitudes de membresía y su revisión.
type ApplicationUseCase struct {
	d         Deps
	repo      repository.ApplicationRepository
	companies repository.CompanyRepository
	packages  repository.PackageRepository
	users     repository.UserRepository
}

// NewApplicationUseCase construye el caso de uso.
func NewApplicationUseCase(d Deps, repo repository.ApplicationRepository, companies repository.CompanyRepository,
	packages repository.PackageRepository, users repository.UserRepository) *ApplicationUseCase {
	return &ApplicationUseCase{d: d.withDefaults(), repo: repo, companies: companies, packages: packages, users: users}
}

// List todas las solicitudes con el email del revisor (admin).
func (uc *ApplicationUseCase) List(ctx context.Context) query.Result[[]entity.MembershipApplication] {
	_, err := uc.d.admin()
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyApplications), defaultRead, err == nil, uc.listWithReviewers)
}

func (uc *ApplicationUseCase) listWithReviewers(ctx context.Context) ([]entity.MembershipApplication, error) {
	apps, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	seen := map[string]bool{}
	for _, a := range apps {
		if a.ReviewedBy != nil && !seen[*a.ReviewedBy] {
			seen[*a.ReviewedBy] = true
			ids = append(ids, *a.ReviewedBy)
		}
	}
	if len(ids) == 0 || uc.users == nil {
		return apps, nil
	}
	emails, err := uc.users.EmailsByID(ctx, ids)
	if err != nil {
		// Los emails son informativos: el listado se muestra igual.
		uc.d.Log.Warn().Err(err).Msg("no se pudieron resolver los revisores")
		return apps, nil
	}
	for i := range apps {
		if id := apps[i].ReviewedBy; id != nil {
			if email, ok := emails[*id]; ok {
				apps[i].ReviewedByUser = &entity.UserRef{ID: *id, Email: email}
			}
		}
	}
	return apps, nil
}

// ForCompany solicitudes de una empresa.
func (uc *ApplicationUseCase) ForCompany(ctx context.Context, companyID string) query.Result[[]entity.MembershipApplication] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyApplications, companyID), defaultRead, ValidID(companyID),
		func(ctx context.Context) ([]entity.MembershipApplication, error) {
			return uc.repo.ListByCompany(ctx, companyID)
		})
}

// FeeFor cuota anual del tipo: la del paquete activo o la tarifa por defecto.
func (uc *ApplicationUseCase) FeeFor(ctx context.Context, t entity.MembershipType) decimal.Decimal {
	if uc.packages != nil {
		pkg, err := uc.packages.ActiveByType(ctx, t)
		if err != nil {
			uc.d.Log.Warn().Err(err).Str("type", string(t)).Msg("paquete activo no disponible, se usa la tarifa por defecto")
		} else if pkg != nil {
			return pkg.AnnualFee
		}
	}
	return entity.DefaultAnnualFees[t]
}

// Submit crea la solicitud para la primera empresa del usuario.
func (uc *ApplicationUseCase) Submit(ctx context.Context, in dto.ApplicationRequest) (*entity.MembershipApplication, error) {
	u, err := uc.d.user()
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	owned, err := uc.companies.ListByOwner(ctx, u.ID)
	if err != nil {
		uc.d.Notifier.Error(failText(err, "Failed to submit application"))
		return nil, err
	}
	if len(owned) == 0 {
		return nil, ErrCompanyRequired
	}
	company := owned[0]
	t := entity.MembershipType(in.MembershipType)
	fields := entity.ApplicationFields{
		CompanyID:      company.ID,
		MembershipType: t,
		AnnualFee:      uc.FeeFor(ctx, t),
		DocumentsURL:   in.DocumentsURL,
		Notes:          in.Notes,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Membership application submitted successfully",
		fallback:   "Failed to submit application",
		invalidate: []query.Key{entityKey(KeyApplications)},
	}, func(ctx context.Context) (*entity.MembershipApplication, error) {
		return uc.repo.Create(ctx, fields)
	})
}

// Review aprueba o rechaza una solicitud pendiente. Registra revisor y fecha.
func (uc *ApplicationUseCase) Review(ctx context.Context, id string, in dto.ReviewApplicationRequest) (*entity.MembershipApplication, error) {
	u, err := uc.d.admin()
	if err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	review := entity.ApplicationReview{
		Status:     in.Status,
		Notes:      in.Notes,
		ReviewedBy: u.ID,
		ReviewedAt: uc.d.Now().UTC(),
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Application updated successfully",
		fallback:   "Failed to update application",
		// La aprobación crea la membresía de la empresa.
		invalidate: []query.Key{entityKey(KeyApplications), entityKey(KeyAdminStats), entityKey(KeyCompanyMembership)},
	}, func(ctx context.Context) (*entity.MembershipApplication, error) {
		a, err := uc.repo.Review(ctx, id, review)
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: application has already been reviewed", domain.ErrConflict)
		}
		return a, err
	})
}
