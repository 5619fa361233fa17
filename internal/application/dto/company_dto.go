package dto

import (
	"strings"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// CompanyRequest formulario de alta/edición de empresa. Website vacío no se envía.
type CompanyRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	LogoURL            *string `json:"logo_url" validate:"omitempty,url"`
	RegistrationNumber string  `json:"registration_number" validate:"required,max=100"`
	IndustrySector     string  `json:"industry_sector" validate:"required,max=100"`
	Address            string  `json:"address" validate:"required"`
	City               string  `json:"city" validate:"required"`
	Country            string  `json:"country" validate:"required"`
	Website            *string `json:"website" validate:"omitempty,url"`
	Description        *string `json:"description"`
	EmployeeCount      *int    `json:"employee_count" validate:"omitempty,min=0"`
	YearEstablished    *int    `json:"year_established" validate:"omitempty,min=1800,max=2100"`
}

// Normalize recorta espacios y convierte los opcionales vacíos en nil.
func (r *CompanyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.RegistrationNumber = strings.TrimSpace(r.RegistrationNumber)
	r.IndustrySector = strings.TrimSpace(r.IndustrySector)
	r.Website = blankToNil(r.Website)
	r.LogoURL = blankToNil(r.LogoURL)
	r.Description = blankToNil(r.Description)
}

// Fields campos de alta para el usuario dueño.
func (r CompanyRequest) Fields(userID string) entity.CompanyFields {
	return entity.CompanyFields{
		Name:               r.Name,
		LogoURL:            r.LogoURL,
		RegistrationNumber: r.RegistrationNumber,
		IndustrySector:     r.IndustrySector,
		Address:            r.Address,
		City:               r.City,
		Country:            r.Country,
		Website:            r.Website,
		Description:        r.Description,
		EmployeeCount:      r.EmployeeCount,
		YearEstablished:    r.YearEstablished,
		UserID:             userID,
	}
}

// UpdateCompanyRequest edición parcial del perfil.
type UpdateCompanyRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	LogoURL            *string `json:"logo_url" validate:"omitempty,url"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=100"`
	IndustrySector     *string `json:"industry_sector" validate:"omitempty,max=100"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	Country            *string `json:"country"`
	Website            *string `json:"website" validate:"omitempty,url"`
	Description        *string `json:"description"`
	EmployeeCount      *int    `json:"employee_count" validate:"omitempty,min=0"`
	YearEstablished    *int    `json:"year_established" validate:"omitempty,min=1800,max=2100"`
}

// Patch convierte la petición en la actualización parcial.
func (r UpdateCompanyRequest) Patch() entity.CompanyPatch {
	return entity.CompanyPatch{
		Name:               r.Name,
		LogoURL:            blankToNil(r.LogoURL),
		RegistrationNumber: r.RegistrationNumber,
		IndustrySector:     r.IndustrySector,
		Address:            r.Address,
		City:               r.City,
		Country:            r.Country,
		Website:            blankToNil(r.Website),
		Description:        r.Description,
		EmployeeCount:      r.EmployeeCount,
		YearEstablished:    r.YearEstablished,
	}
}

// DirectoryQuery filtros del directorio de miembros.
type DirectoryQuery struct {
	Search string `query:"search"`
	Sector string `query:"sector"`
}

// DirectoryResponse empresas filtradas y sectores disponibles.
type DirectoryResponse struct {
	Items   []entity.Company `json:"items"`
	Total   int              `json:"total"`
	Sectors []string         `json:"sectors"`
}

// CompanyProfileResponse perfil con la membresía actual.
type CompanyProfileResponse struct {
	Company    *entity.Company    `json:"company"`
	Membership *entity.Membership `json:"membership"`
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
