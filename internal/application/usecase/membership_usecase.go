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

// MembershipUseCase detalle de membresía e historial de pagos.
type MembershipUseCase struct {
	d        Deps
	repo     repository.MembershipRepository
	payments repository.PaymentRepository
}

// NewMembershipUseCase construye el caso de uso.
func NewMembershipUseCase(d Deps, repo repository.MembershipRepository, payments repository.PaymentRepository) *MembershipUseCase {
	return &MembershipUseCase{d: d.withDefaults(), repo: repo, payments: payments}
}

// Get membresía por id (Skipped con id inválido).
func (uc *MembershipUseCase) Get(ctx context.Context, id string) query.Result[*entity.Membership] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyMembership, id), defaultRead, ValidID(id),
		func(ctx context.Context) (*entity.Membership, error) { return uc.repo.GetByID(ctx, id) })
}

// Payments pagos de la membresía, el más reciente primero.
func (uc *MembershipUseCase) Payments(ctx context.Context, membershipID string) query.Result[[]entity.PaymentRecord] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyPayments, membershipID), defaultRead, ValidID(membershipID),
		func(ctx context.Context) ([]entity.PaymentRecord, error) {
			return uc.payments.ListByMembership(ctx, membershipID)
		})
}

// Payment un pago concreto (recibo). Sin caché: el recibo se genera bajo demanda.
func (uc *MembershipUseCase) Payment(ctx context.Context, id string) (*entity.PaymentRecord, error) {
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Update cambia estado, fechas o cuota de la membresía.
func (uc *MembershipUseCase) Update(ctx context.Context, id string, in dto.UpdateMembershipRequest) (*entity.Membership, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	patch := entity.MembershipPatch{
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		AnnualFee:     in.AnnualFee,
	}
	var err error
	if patch.StartDate, err = optionalDate(in.StartDate); err != nil {
		return nil, domain.Field("start_date", "must be a date in format 2006-01-02")
	}
	if patch.EndDate, err = optionalDate(in.EndDate); err != nil {
		return nil, domain.Field("end_date", "must be a date in format 2006-01-02")
	}
	if patch.NextPaymentDate, err = optionalDate(in.NextPaymentDate); err != nil {
		return nil, domain.Field("next_payment_date", "must be a date in format 2006-01-02")
	}
	if patch.StartDate != nil && patch.EndDate != nil && patch.StartDate.After(*patch.EndDate) {
		return nil, domain.Field("end_date", "must not be before start_date")
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Membership updated successfully",
		fallback:   "Failed to update membership",
		invalidate: []query.Key{scoped(KeyMembership, id), entityKey(KeyCompanyMembership)},
	}, func(ctx context.Context) (*entity.Membership, error) {
		return uc.repo.Update(ctx, id, patch)
	})
}

// RecordPayment agrega un pago. Rechaza fechas futuras; al éxito invalida la lista de pagos
// y la lectura de la membresía del mismo id.
func (uc *MembershipUseCase) RecordPayment(ctx context.Context, membershipID string, in dto.RecordPaymentRequest) (*entity.PaymentRecord, error) {
	if _, err := uc.d.user(); err != nil {
		return nil, err
	}
	if !ValidID(membershipID) {
		return nil, domain.ErrNotFound
	}
	in.Reference = strings.TrimSpace(in.Reference)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(in.PaymentDate)
	if err != nil {
		return nil, domain.Field("payment_date", "must be a date in format 2006-01-02")
	}
	if date.After(entity.NewDate(uc.d.Now())) {
		return nil, domain.Field("payment_date", "Payment date cannot be in the future")
	}
	status := in.Status
	if status == "" {
		status = entity.PaymentSuccess
	}
	fields := entity.PaymentFields{
		MembershipID:  membershipID,
		Amount:        in.Amount,
		PaymentDate:   date,
		PaymentMethod: in.PaymentMethod,
		Reference:     in.Reference,
		Status:        status,
	}
	return mutate(ctx, uc.d, mutation{
		success:  "Payment recorded successfully",
		fallback: "Failed to record payment",
		invalidate: []query.Key{
			scoped(KeyPayments, membershipID),
			scoped(KeyMembership, membershipID),
			entityKey(KeyCompanyMembership),
		},
	}, func(ctx context.Context) (*entity.PaymentRecord, error) {
		return uc.payments.Create(ctx, fields)
	})
}

func optionalDate(s *string) (*entity.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
