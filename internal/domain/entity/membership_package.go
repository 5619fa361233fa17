package entity

import "github.com/shopspring/decimal"

// MembershipPackage tarifa configurada por el administrador para un tipo de membresía.
type MembershipPackage struct {
	ID          string          `json:"id" yaml:"-"`
	Name        string          `json:"name" yaml:"name"`
	Type        MembershipType  `json:"type" yaml:"type"`
	AnnualFee   decimal.Decimal `json:"annual_fee" yaml:"annual_fee"`
	Description string          `json:"description" yaml:"description"`
	Features    []string        `json:"features" yaml:"features"`
	IsActive    bool            `json:"is_active" yaml:"is_active"`
}

// PackageFields campos de alta de un paquete.
type PackageFields struct {
	Name        string          `json:"name"`
	Type        MembershipType  `json:"type"`
	AnnualFee   decimal.Decimal `json:"annual_fee"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	IsActive    bool            `json:"is_active"`
}

// PackagePatch actualización parcial de un paquete.
type PackagePatch struct {
	Name        *string          `json:"name,omitempty"`
	Type        *MembershipType  `json:"type,omitempty"`
	AnnualFee   *decimal.Decimal `json:"annual_fee,omitempty"`
	Description *string          `json:"description,omitempty"`
	Features    []string         `json:"features,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}
