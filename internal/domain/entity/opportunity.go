package entity

import "time"

// Tipos de oportunidad.
const (
	OpportunityTender      = "tender"
	OpportunityPartnership = "partnership"
	OpportunityInvestment  = "investment"
	OpportunityJob         = "job"
)

// BusinessOpportunity oportunidad de negocio publicada, opcionalmente por una empresa.
type BusinessOpportunity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OpportunityType string    `json:"opportunity_type"`
	Sector          string    `json:"sector"`
	Deadline        Date      `json:"deadline"`
	BudgetRange     *string   `json:"budget_range,omitempty"`
	Requirements    *string   `json:"requirements,omitempty"`
	ContactEmail    string    `json:"contact_email"`
	ContactPhone    *string   `json:"contact_phone,omitempty"`
	CompanyID       *string   `json:"company_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Company *Company `json:"company,omitempty"`
}

// OpportunityFields campos de alta de una oportunidad.
type OpportunityFields struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	OpportunityType string  `json:"opportunity_type"`
	Sector          string  `json:"sector"`
	Deadline        Date    `json:"deadline"`
	BudgetRange     *string `json:"budget_range,omitempty"`
	Requirements    *string `json:"requirements,omitempty"`
	ContactEmail    string  `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	CompanyID       *string `json:"company_id,omitempty"`
}

// OpportunityPatch actualización parcial de una oportunidad.
type OpportunityPatch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	OpportunityType *string `json:"opportunity_type,omitempty"`
	Sector          *string `json:"sector,omitempty"`
	Deadline        *Date   `json:"deadline,omitempty"`
	BudgetRange     *string `json:"budget_range,omitempty"`
	Requirements    *string `json:"requirements,omitempty"`
	ContactEmail    *string `json:"contact_email,omitempty"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	CompanyID       *string `json:"company_id,omitempty"`
}
