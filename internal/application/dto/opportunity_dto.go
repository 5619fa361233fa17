package dto

// OpportunityRequest publicación de una oportunidad. company_id es la empresa que publica.
type OpportunityRequest struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"required"`
	OpportunityType string  `json:"opportunity_type" validate:"required,oneof=tender partnership investment job"`
	Sector          string  `json:"sector" validate:"required"`
	Deadline        string  `json:"deadline" validate:"required,datetime=2006-01-02"`
	BudgetRange     *string `json:"budget_range"`
	Requirements    *string `json:"requirements"`
	ContactEmail    string  `json:"contact_email" validate:"required,email"`
	ContactPhone    *string `json:"contact_phone"`
	CompanyID       string  `json:"company_id" validate:"required,uuid"`
}

// UpdateOpportunityRequest edición parcial.
type UpdateOpportunityRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string `json:"description"`
	OpportunityType *string `json:"opportunity_type" validate:"omitempty,oneof=tender partnership investment job"`
	Sector          *string `json:"sector"`
	Deadline        *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	BudgetRange     *string `json:"budget_range"`
	Requirements    *string `json:"requirements"`
	ContactEmail    *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone    *string `json:"contact_phone"`
}
