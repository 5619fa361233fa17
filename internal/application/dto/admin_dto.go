package dto

import (
	"github.com/shopspring/decimal"
)

// AdminStatsResponse panel de administración.
type AdminStatsResponse struct {
	TotalMembers        int             `json:"total_members"`
	ActiveMembers       int             `json:"active_members"`
	PendingApplications int             `json:"pending_applications"`
	UpcomingEvents      int             `json:"upcoming_events"`
	MemberGrowth        decimal.Decimal `json:"member_growth"`  // %
	RevenueGrowth       decimal.Decimal `json:"revenue_growth"` // %
	CollectionRate      decimal.Decimal `json:"collection_rate"`
	Source              string          `json:"source"` // postgres | rest
}

// PackageRequest alta de un paquete de membresía.
type PackageRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Type        string          `json:"type" validate:"required,oneof=sme corporate international"`
	AnnualFee   decimal.Decimal `json:"annual_fee" validate:"gt=0"`
	Description string          `json:"description" validate:"max=2000"`
	Features    []string        `json:"features" validate:"omitempty,dive,required"`
	IsActive    *bool           `json:"is_active"`
}

// UpdatePackageRequest edición parcial de un paquete.
type UpdatePackageRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Type        *string          `json:"type" validate:"omitempty,oneof=sme corporate international"`
	AnnualFee   *decimal.Decimal `json:"annual_fee" validate:"omitempty,gt=0"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Features    []string         `json:"features" validate:"omitempty,dive,required"`
	IsActive    *bool            `json:"is_active"`
}

// PaymentSettingsRequest configuración de la pasarela. Secretos vacíos conservan el valor guardado.
type PaymentSettingsRequest struct {
	Provider      string  `json:"provider" validate:"required,max=50"`
	PublicKey     string  `json:"public_key" validate:"required"`
	SecretKey     string  `json:"secret_key"`
	WebhookSecret *string `json:"webhook_secret"`
	TestMode      bool    `json:"test_mode"`
}

// PaymentSettingsResponse configuración con los secretos enmascarados.
type PaymentSettingsResponse struct {
	Provider         string `json:"provider"`
	PublicKey        string `json:"public_key"`
	SecretKey        string `json:"secret_key"`
	WebhookSecret    string `json:"webhook_secret"`
	HasSecretKey     bool   `json:"has_secret_key"`
	HasWebhookSecret bool   `json:"has_webhook_secret"`
	TestMode         bool   `json:"test_mode"`
	Configured       bool   `json:"configured"`
}
