package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// RecordPaymentRequest registro manual de un pago. payment_date no puede ser futura.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=bank_transfer card cash mobile_money"`
	Reference     string          `json:"reference" validate:"required,max=100"`
	PaymentDate   string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Status        string          `json:"status" validate:"omitempty,oneof=success pending failed"`
}

// UpdateMembershipRequest cambios de estado de una membresía (admin).
type UpdateMembershipRequest struct {
	Status          *string          `json:"status" validate:"omitempty,oneof=active pending expired"`
	PaymentStatus   *string          `json:"payment_status" validate:"omitempty,oneof=paid unpaid partial"`
	StartDate       *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AnnualFee       *decimal.Decimal `json:"annual_fee" validate:"omitempty,gt=0"`
	NextPaymentDate *string          `json:"next_payment_date" validate:"omitempty,datetime=2006-01-02"`
}

// MembershipDetailsResponse membresía con su historial de pagos.
type MembershipDetailsResponse struct {
	Membership *entity.Membership     `json:"membership"`
	Payments   []entity.PaymentRecord `json:"payments"`
}

// ApplicationRequest solicitud de membresía para la empresa del usuario.
type ApplicationRequest struct {
	MembershipType string   `json:"membership_type" validate:"required,oneof=sme corporate international"`
	DocumentsURL   []string `json:"documents_url" validate:"omitempty,dive,url"`
	Notes          *string  `json:"notes" validate:"omitempty,max=2000"`
}

// ReviewApplicationRequest decisión del administrador.
type ReviewApplicationRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// ReceiptData datos para renderizar el recibo de un pago.
type ReceiptData struct {
	Payment    entity.PaymentRecord
	Membership *entity.Membership
	Company    *entity.Company
	IssuedAt   time.Time
}
