package supabase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var (
	_ repository.PackageRepository         = (*PackageRepo)(nil)
	_ repository.PaymentSettingsRepository = (*PaymentSettingsRepo)(nil)
)

// PackageRepo tabla membership_packages.
type PackageRepo struct {
	rest
}

// NewPackageRepository construye el adaptador.
func NewPackageRepository(c *Client, tokens TokenSource) *PackageRepo {
	return &PackageRepo{rest{c: c, tokens: tokens}}
}

func (r *PackageRepo) List(ctx context.Context) ([]entity.MembershipPackage, error) {
	return list[entity.MembershipPackage](ctx, r.from(ctx, "membership_packages").Select("*").Order("annual_fee", true))
}

func (r *PackageRepo) ActiveByType(ctx context.Context, t entity.MembershipType) (*entity.MembershipPackage, error) {
	return first[entity.MembershipPackage](ctx, r.from(ctx, "membership_packages").
		Select("*").
		Eq("type", t).
		Eq("is_active", true).
		Order("annual_fee", true))
}

func (r *PackageRepo) GetByName(ctx context.Context, name string) (*entity.MembershipPackage, error) {
	return first[entity.MembershipPackage](ctx, r.from(ctx, "membership_packages").Select("*").Eq("name", name))
}

func (r *PackageRepo) Create(ctx context.Context, in entity.PackageFields) (*entity.MembershipPackage, error) {
	return single[entity.MembershipPackage](ctx, r.from(ctx, "membership_packages").Insert(in).Select("*"))
}

func (r *PackageRepo) Update(ctx context.Context, id string, patch entity.PackagePatch) (*entity.MembershipPackage, error) {
	return single[entity.MembershipPackage](ctx, r.from(ctx, "membership_packages").Update(patch).Eq("id", id).Select("*"))
}

// PaymentSettingsRepo tabla payment_gateway_settings (una fila).
type PaymentSettingsRepo struct {
	rest
}

// NewPaymentSettingsRepository construye el adaptador.
func NewPaymentSettingsRepository(c *Client, tokens TokenSource) *PaymentSettingsRepo {
	return &PaymentSettingsRepo{rest{c: c, tokens: tokens}}
}

func (r *PaymentSettingsRepo) Get(ctx context.Context) (*entity.PaymentGatewaySettings, error) {
	return first[entity.PaymentGatewaySettings](ctx, r.from(ctx, "payment_gateway_settings").Select("*"))
}

func (r *PaymentSettingsRepo) Save(ctx context.Context, s entity.PaymentGatewaySettings) (*entity.PaymentGatewaySettings, error) {
	id := s.ID
	s.ID = ""
	if id != "" {
		return single[entity.PaymentGatewaySettings](ctx, r.from(ctx, "payment_gateway_settings").Update(s).Eq("id", id).Select("*"))
	}
	return single[entity.PaymentGatewaySettings](ctx, r.from(ctx, "payment_gateway_settings").Insert(s).Select("*"))
}
