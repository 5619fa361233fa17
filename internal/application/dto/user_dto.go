package dto

import (
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// LoginRequest entrada del inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest registro público. El rol siempre es non-member.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// Profile campos de perfil del registro.
func (r RegisterRequest) Profile() entity.UserProfile {
	return entity.UserProfile{FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}
}

// ForgotPasswordRequest solicitud del enlace de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest nueva contraseña para la sesión actual.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SessionResponse estado de autenticación de la sesión del portal.
type SessionResponse struct {
	State string       `json:"state"`
	User  *entity.User `json:"user"`
}

// CreateUserRequest alta administrativa de usuarios.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Role      string `json:"role" validate:"required,oneof=admin member non-member"`
}

// UpdateRoleRequest cambio de rol.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member non-member"`
}

// UserListQuery filtros de la gestión de usuarios.
type UserListQuery struct {
	Search string `query:"search"`
	Role   string `query:"role" validate:"omitempty,oneof=all admin member non-member"`
}
