package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// MembershipRepository puerto de persistencia de membresías.
type MembershipRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Membership, error)
	// CurrentForCompany devuelve la membresía más reciente (created_at) de la empresa o nil.
	CurrentForCompany(ctx context.Context, companyID string) (*entity.Membership, error)
	Update(ctx context.Context, id string, patch entity.MembershipPatch) (*entity.Membership, error)
}

// PaymentRepository puerto de persistencia de pagos. Solo lectura y alta.
type PaymentRepository interface {
	// ListByMembership ordena por payment_date descendente.
	ListByMembership(ctx context.Context, membershipID string) ([]entity.PaymentRecord, error)
	GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error)
	Create(ctx context.Context, in entity.PaymentFields) (*entity.PaymentRecord, error)
}
