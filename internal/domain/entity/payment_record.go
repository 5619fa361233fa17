package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentBankTransfer = "bank_transfer"
	PaymentCard         = "card"
	PaymentCash         = "cash"
	PaymentMobileMoney  = "mobile_money"
)

// Estados de un registro de pago.
const (
	PaymentSuccess = "success"
	PaymentPending = "pending"
	PaymentFailed  = "failed"
)

// PaymentRecord pago de una membresía. Solo se agregan registros, nunca se modifican.
type PaymentRecord struct {
	ID            string          `json:"id"`
	MembershipID  string          `json:"membership_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   Date            `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentFields campos de alta de un pago.
type PaymentFields struct {
	MembershipID  string          `json:"membership_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   Date            `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
}
