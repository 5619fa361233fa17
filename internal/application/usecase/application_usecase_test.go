package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

type applicationFixture struct {
	uc       *usecase.ApplicationUseCase
	apps     *applicationRepo
	packages *packageRepo
	d        usecase.Deps
}

func newApplicationFixture(u *entity.User, companies ...entity.Company) applicationFixture {
	apps := &applicationRepo{items: map[string]entity.MembershipApplication{}}
	pkgs := &packageRepo{items: map[string]entity.MembershipPackage{}}
	users := &userRepo{items: []entity.UserRecord{{ID: adminU.ID, Email: adminU.Email}}}
	d, _ := newDeps(u)
	return applicationFixture{
		uc:       usecase.NewApplicationUseCase(d, apps, newCompanyRepo(companies...), pkgs, users),
		apps:     apps,
		packages: pkgs,
		d:        d,
	}
}

func TestApplicationUseCase_SubmitSinEmpresa(t *testing.T) {
	f := newApplicationFixture(member)

	_, err := f.uc.Submit(context.Background(), dto.ApplicationRequest{MembershipType: "sme"})

	assert.ErrorIs(t, err, usecase.ErrCompanyRequired)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.apps.created)
}

func TestApplicationUseCase_SubmitUsaTarifaPorDefecto(t *testing.T) {
	f := newApplicationFixture(member, entity.Company{ID: anyUUID, UserID: member.ID})

	a, err := f.uc.Submit(context.Background(), dto.ApplicationRequest{MembershipType: "corporate"})

	require.NoError(t, err)
	assert.Equal(t, anyUUID, a.CompanyID)
	assert.Equal(t, entity.ApplicationPending, a.Status)
	assert.True(t, decimal.NewFromInt(2500).Equal(f.apps.created[0].AnnualFee))
}

func TestApplicationUseCase_FeeForPrefierePaqueteActivo(t *testing.T) {
	f := newApplicationFixture(member)
	f.packages.items["p"] = entity.MembershipPackage{ID: "p", Type: entity.MembershipSME, AnnualFee: decimal.NewFromInt(1200), IsActive: true}

	assert.True(t, decimal.NewFromInt(1200).Equal(f.uc.FeeFor(context.Background(), entity.MembershipSME)))

	f.packages.err = errors.New("relation membership_packages does not exist")
	assert.True(t, decimal.NewFromInt(1000).Equal(f.uc.FeeFor(context.Background(), entity.MembershipSME)))
}

func TestApplicationUseCase_ReviewRegistraRevisorYRechazaSegundaRevision(t *testing.T) {
	f := newApplicationFixture(adminU)
	f.apps.items[anyUUID] = entity.MembershipApplication{ID: anyUUID, Status: entity.ApplicationPending}
	ctx := context.Background()

	a, err := f.uc.Review(ctx, anyUUID, dto.ReviewApplicationRequest{Status: entity.ApplicationApproved})
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationApproved, a.Status)
	require.NotNil(t, a.ReviewedBy)
	assert.Equal(t, adminU.ID, *a.ReviewedBy)
	assert.True(t, today.Equal(*a.ReviewedAt))
	assert.True(t, f.d.Cache.Stale(query.EntityKey(usecase.KeyAdminStats)))

	_, err = f.uc.Review(ctx, anyUUID, dto.ReviewApplicationRequest{Status: entity.ApplicationRejected})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.ApplicationApproved, f.apps.items[anyUUID].Status)
}

func TestApplicationUseCase_AprobarInvalidaLaMembresiaDeLaEmpresa(t *testing.T) {
	f := newApplicationFixture(adminU)
	f.apps.items[anyUUID] = entity.MembershipApplication{ID: anyUUID, CompanyID: anyUUID, Status: entity.ApplicationPending}
	ctx := context.Background()
	key := query.ScopedKey(usecase.KeyCompanyMembership, anyUUID)
	query.Fetch(ctx, f.d.Cache, key, query.Options{StaleTime: time.Hour}, true,
		func(context.Context) (*entity.Membership, error) { return nil, nil })
	require.False(t, f.d.Cache.Stale(key))

	_, err := f.uc.Review(ctx, anyUUID, dto.ReviewApplicationRequest{Status: entity.ApplicationApproved})

	require.NoError(t, err)
	assert.True(t, f.d.Cache.Stale(key), "el perfil vuelve a leer la membresía vigente")
}

func TestApplicationUseCase_ListResuelveEmailDelRevisor(t *testing.T) {
	f := newApplicationFixture(adminU)
	f.apps.items[anyUUID] = entity.MembershipApplication{ID: anyUUID, Status: entity.ApplicationApproved, ReviewedBy: ptr(adminU.ID)}

	r := f.uc.List(context.Background())

	require.Equal(t, query.Loaded, r.Status)
	require.Len(t, r.Data, 1)
	require.NotNil(t, r.Data[0].ReviewedByUser)
	assert.Equal(t, adminU.Email, r.Data[0].ReviewedByUser.Email)
}

func TestApplicationUseCase_ListSoloAdmin(t *testing.T) {
	f := newApplicationFixture(member)

	assert.Equal(t, query.Skipped, f.uc.List(context.Background()).Status)
}
