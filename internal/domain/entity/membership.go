package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipType categoría de membresía.
type MembershipType string

const (
	MembershipSME           MembershipType = "sme"
	MembershipCorporate     MembershipType = "corporate"
	MembershipInternational MembershipType = "international"
)

// DefaultAnnualFees cuotas anuales cuando no hay un paquete activo para el tipo.
var DefaultAnnualFees = map[MembershipType]decimal.Decimal{
	MembershipSME:           decimal.NewFromInt(1000),
	MembershipCorporate:     decimal.NewFromInt(2500),
	MembershipInternational: decimal.NewFromInt(5000),
}

// Valid indica si t es un tipo conocido.
func (t MembershipType) Valid() bool {
	_, ok := DefaultAnnualFees[t]
	return ok
}

// Estados de membresía.
const (
	MembershipActive  = "active"
	MembershipPending = "pending"
	MembershipExpired = "expired"
)

// Estados de pago de la membresía.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
)

// Membership membresía de una empresa. La "actual" de una empresa es la más reciente por created_at.
type Membership struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	MembershipType  MembershipType  `json:"membership_type"`
	Status          string          `json:"status"`
	StartDate       Date            `json:"start_date"`
	EndDate         Date            `json:"end_date"`
	PaymentStatus   string          `json:"payment_status"`
	AnnualFee       decimal.Decimal `json:"annual_fee"`
	LastPaymentDate *Date           `json:"last_payment_date"`
	NextPaymentDate *Date           `json:"next_payment_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MembershipPatch actualización parcial de una membresía.
type MembershipPatch struct {
	Status          *string          `json:"status,omitempty"`
	PaymentStatus   *string          `json:"payment_status,omitempty"`
	StartDate       *Date            `json:"start_date,omitempty"`
	EndDate         *Date            `json:"end_date,omitempty"`
	AnnualFee       *decimal.Decimal `json:"annual_fee,omitempty"`
	LastPaymentDate *Date            `json:"last_payment_date,omitempty"`
	NextPaymentDate *Date            `json:"next_payment_date,omitempty"`
}
