package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud. approved y rejected son terminales.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// MembershipApplication solicitud de membresía de una empresa, sujeta a revisión.
type MembershipApplication struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	MembershipType MembershipType  `json:"membership_type"`
	AnnualFee      decimal.Decimal `json:"annual_fee"`
	DocumentsURL   []string        `json:"documents_url,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Status         string          `json:"status"`
	ReviewedBy     *string         `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Company        *CompanyRef `json:"company,omitempty"`
	ReviewedByUser *UserRef    `json:"reviewed_by_user,omitempty"`
}

// Terminal indica si la solicitud ya fue revisada.
func (a *MembershipApplication) Terminal() bool {
	return a.Status == ApplicationApproved || a.Status == ApplicationRejected
}

// UserRef forma reducida de un usuario (revisor).
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ApplicationFields campos de alta de una solicitud.
type ApplicationFields struct {
	CompanyID      string          `json:"company_id"`
	MembershipType MembershipType  `json:"membership_type"`
	AnnualFee      decimal.Decimal `json:"annual_fee"`
	DocumentsURL   []string        `json:"documents_url,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

// ApplicationReview resultado de la revisión de un administrador.
type ApplicationReview struct {
	Status     string    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	ReviewedBy string    `json:"reviewed_by"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
