package usecase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/application/analytics"
	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/secretbox"
)

// Repositories puertos de datos de una sesión, ya ligados a su token.
type Repositories struct {
	Companies       repository.CompanyRepository
	Memberships     repository.MembershipRepository
	Payments        repository.PaymentRepository
	Applications    repository.ApplicationRepository
	Events          repository.EventRepository
	Registrations   repository.RegistrationRepository
	Opportunities   repository.OpportunityRepository
	Packages        repository.PackageRepository
	PaymentSettings repository.PaymentSettingsRepository
	Users           repository.UserRepository
	Stats           repository.StatsRepository
	// StatsSource origen de los conteos del panel (postgres | rest).
	StatsSource string
}

// Portal casos de uso de una sesión del portal sobre una misma caché y un mismo notificador.
type Portal struct {
	d               Deps
	Companies       *CompanyUseCase
	Memberships     *MembershipUseCase
	Applications    *ApplicationUseCase
	Events          *EventUseCase
	Opportunities   *OpportunityUseCase
	Packages        *PackageUseCase
	PaymentSettings *PaymentSettingsUseCase
	Users           *UserUseCase
	stats           *analytics.StatsUseCase
}

// NewPortal arma los casos de uso. admin puede ser nil si no hay credencial de servicio.
func NewPortal(d Deps, r Repositories, admin repository.UserAdmin, box *secretbox.Box) *Portal {
	d = d.withDefaults()
	return &Portal{
		d:               d,
		Companies:       NewCompanyUseCase(d, r.Companies, r.Memberships),
		Memberships:     NewMembershipUseCase(d, r.Memberships, r.Payments),
		Applications:    NewApplicationUseCase(d, r.Applications, r.Companies, r.Packages, r.Users),
		Events:          NewEventUseCase(d, r.Events, r.Registrations),
		Opportunities:   NewOpportunityUseCase(d, r.Opportunities, r.Companies),
		Packages:        NewPackageUseCase(d, r.Packages),
		PaymentSettings: NewPaymentSettingsUseCase(d, r.PaymentSettings, box),
		Users:           NewUserUseCase(d, r.Users, admin),
		stats:           analytics.NewStatsUseCase(r.Stats, d.Cache, r.StatsSource),
	}
}

// Cache caché compartida por todos los casos de uso de la sesión.
func (p *Portal) Cache() *query.Cache { return p.d.Cache }

// AdminStats resumen del panel. Solo administradores: el conteo directo por Postgres no pasa por RLS.
func (p *Portal) AdminStats(ctx context.Context) (query.Result[dto.AdminStatsResponse], error) {
	if _, err := p.d.admin(); err != nil {
		return query.Result[dto.AdminStatsResponse]{}, err
	}
	return p.stats.Overview(ctx), nil
}

// Receipt reúne pago, membresía y empresa para el recibo. Lo que RLS no deja leer es NotFound.
func (p *Portal) Receipt(ctx context.Context, paymentID string) (dto.ReceiptData, error) {
	if _, err := p.d.user(); err != nil {
		return dto.ReceiptData{}, err
	}
	pay, err := p.Memberships.Payment(ctx, paymentID)
	if err != nil {
		return dto.ReceiptData{}, err
	}
	out := dto.ReceiptData{Payment: *pay, IssuedAt: p.d.Now()}

	ms := p.Memberships.Get(ctx, pay.MembershipID)
	if ms.Status == query.Failed {
		return dto.ReceiptData{}, ms.Err
	}
	out.Membership = ms.Data
	if out.Membership != nil {
		c := p.Companies.Get(ctx, out.Membership.CompanyID)
		if c.Status == query.Failed {
			return dto.ReceiptData{}, c.Err
		}
		out.Company = c.Data
	}
	return out, nil
}
