package supabase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var (
	_ repository.MembershipRepository = (*MembershipRepo)(nil)
	_ repository.PaymentRepository    = (*PaymentRepo)(nil)
)

// MembershipRepo tabla memberships.
type MembershipRepo struct {
	rest
}

// NewMembershipRepository construye el adaptador.
func NewMembershipRepository(c *Client, tokens TokenSource) *MembershipRepo {
	return &MembershipRepo{rest{c: c, tokens: tokens}}
}

func (r *MembershipRepo) GetByID(ctx context.Context, id string) (*entity.Membership, error) {
	return one[entity.Membership](ctx, r.from(ctx, "memberships").Select("*").Eq("id", id))
}

func (r *MembershipRepo) CurrentForCompany(ctx context.Context, companyID string) (*entity.Membership, error) {
	return first[entity.Membership](ctx, r.from(ctx, "memberships").
		Select("*").
		Eq("company_id", companyID).
		Order("created_at", false))
}

func (r *MembershipRepo) Update(ctx context.Context, id string, patch entity.MembershipPatch) (*entity.Membership, error) {
	return single[entity.Membership](ctx, r.from(ctx, "memberships").Update(patch).Eq("id", id).Select("*"))
}

// PaymentRepo tabla payment_records (solo alta y lectura).
type PaymentRepo struct {
	rest
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(c *Client, tokens TokenSource) *PaymentRepo {
	return &PaymentRepo{rest{c: c, tokens: tokens}}
}

func (r *PaymentRepo) ListByMembership(ctx context.Context, membershipID string) ([]entity.PaymentRecord, error) {
	return list[entity.PaymentRecord](ctx, r.from(ctx, "payment_records").
		Select("*").
		Eq("membership_id", membershipID).
		Order("payment_date", false))
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error) {
	return one[entity.PaymentRecord](ctx, r.from(ctx, "payment_records").Select("*").Eq("id", id))
}

func (r *PaymentRepo) Create(ctx context.Context, in entity.PaymentFields) (*entity.PaymentRecord, error) {
	return single[entity.PaymentRecord](ctx, r.from(ctx, "payment_records").Insert(in).Select("*"))
}
