package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// PackageUseCase paquetes (tarifas) de membresía.
type PackageUseCase struct {
	d    Deps
	repo repository.PackageRepository
}

// NewPackageUseCase construye el caso de uso.
func NewPackageUseCase(d Deps, repo repository.PackageRepository) *PackageUseCase {
	return &PackageUseCase{d: d.withDefaults(), repo: repo}
}

// List paquetes por cuota anual.
func (uc *PackageUseCase) List(ctx context.Context) query.Result[[]entity.MembershipPackage] {
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyPackages), defaultRead, true, uc.repo.List)
}

// Create alta de un paquete (admin). Activo por defecto.
func (uc *PackageUseCase) Create(ctx context.Context, in dto.PackageRequest) (*entity.MembershipPackage, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	fields := entity.PackageFields{
		Name:        in.Name,
		Type:        entity.MembershipType(in.Type),
		AnnualFee:   in.AnnualFee,
		Description: in.Description,
		Features:    nonNil(in.Features),
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Package created successfully",
		fallback:   "Failed to create package",
		invalidate: []query.Key{entityKey(KeyPackages)},
	}, func(ctx context.Context) (*entity.MembershipPackage, error) { return uc.repo.Create(ctx, fields) })
}

// Update edición parcial de un paquete (admin).
func (uc *PackageUseCase) Update(ctx context.Context, id string, in dto.UpdatePackageRequest) (*entity.MembershipPackage, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	patch := entity.PackagePatch{
		Name:        in.Name,
		AnnualFee:   in.AnnualFee,
		Description: in.Description,
		Features:    in.Features,
		IsActive:    in.IsActive,
	}
	if in.Type != nil {
		t := entity.MembershipType(*in.Type)
		patch.Type = &t
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Package updated successfully",
		fallback:   "Failed to update package",
		invalidate: []query.Key{entityKey(KeyPackages)},
	}, func(ctx context.Context) (*entity.MembershipPackage, error) { return uc.repo.Update(ctx, id, patch) })
}

// SeedResult resumen de una carga de paquetes.
type SeedResult struct {
	Created int
	Updated int
}

// SeedPackages crea o actualiza (por nombre) cada paquete. Lo usa el CLI de operación,
// fuera de cualquier sesión del portal.
func SeedPackages(ctx context.Context, repo repository.PackageRepository, pkgs []entity.MembershipPackage) (SeedResult, error) {
	var res SeedResult
	for _, p := range pkgs {
		if !p.Type.Valid() {
			return res, domain.Field("type", "must be one of: sme corporate international")
		}
		existing, err := repo.GetByName(ctx, p.Name)
		if err != nil {
			return res, err
		}
		if existing == nil {
			if _, err := repo.Create(ctx, entity.PackageFields{
				Name:        p.Name,
				Type:        p.Type,
				AnnualFee:   p.AnnualFee,
				Description: p.Description,
				Features:    nonNil(p.Features),
				IsActive:    p.IsActive,
			}); err != nil {
				return res, err
			}
			res.Created++
			continue
		}
		fee, desc, active, t := p.AnnualFee, p.Description, p.IsActive, p.Type
		if _, err := repo.Update(ctx, existing.ID, entity.PackagePatch{
			Type:        &t,
			AnnualFee:   &fee,
			Description: &desc,
			Features:    nonNil(p.Features),
			IsActive:    &active,
		}); err != nil {
			return res, err
		}
		res.Updated++
	}
	return res, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
