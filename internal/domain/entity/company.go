package entity

import "time"

// Company perfil de una organización miembro. Pertenece a un único usuario (UserID).
type Company struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	LogoURL            *string   `json:"logo_url,omitempty"`
	RegistrationNumber string    `json:"registration_number"`
	IndustrySector     string    `json:"industry_sector"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	Country            string    `json:"country"`
	Website            *string   `json:"website,omitempty"`
	Description        *string   `json:"description,omitempty"`
	EmployeeCount      *int      `json:"employee_count,omitempty"`
	YearEstablished    *int      `json:"year_established,omitempty"`
	UserID             string    `json:"user_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CompanyRef forma reducida (id, nombre) que se embebe en otros recursos.
type CompanyRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CompanyFields campos de alta. Los opcionales vacíos no se envían.
type CompanyFields struct {
	Name               string  `json:"name"`
	LogoURL            *string `json:"logo_url,omitempty"`
	RegistrationNumber string  `json:"registration_number"`
	IndustrySector     string  `json:"industry_sector"`
	Address            string  `json:"address"`
	City               string  `json:"city"`
	Country            string  `json:"country"`
	Website            *string `json:"website,omitempty"`
	Description        *string `json:"description,omitempty"`
	EmployeeCount      *int    `json:"employee_count,omitempty"`
	YearEstablished    *int    `json:"year_established,omitempty"`
	UserID             string  `json:"user_id"`
}

// CompanyPatch actualización parcial: solo se envían los campos no nil.
type CompanyPatch struct {
	Name               *string `json:"name,omitempty"`
	LogoURL            *string `json:"logo_url,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	IndustrySector     *string `json:"industry_sector,omitempty"`
	Address            *string `json:"address,omitempty"`
	City               *string `json:"city,omitempty"`
	Country            *string `json:"country,omitempty"`
	Website            *string `json:"website,omitempty"`
	Description        *string `json:"description,omitempty"`
	EmployeeCount      *int    `json:"employee_count,omitempty"`
	YearEstablished    *int    `json:"year_established,omitempty"`
}
