package entity

import (
	"strings"
	"time"
)

// Role rol del portal. El valor viene de los metadatos de la sesión (fuente externa)
// y se normaliza siempre con ParseRole.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMember    Role = "member"
	RoleNonMember Role = "non-member"
)

// Roles lista cerrada de roles válidos.
var Roles = []Role{RoleAdmin, RoleMember, RoleNonMember}

// ParseRole normaliza un valor débilmente tipado. Cualquier valor desconocido es non-member.
func ParseRole(v any) Role {
	s, ok := v.(string)
	if !ok {
		return RoleNonMember
	}
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMember, RoleNonMember:
		return r
	default:
		return RoleNonMember
	}
}

// Valid indica si r pertenece a la enumeración.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember || r == RoleNonMember
}

// User vista del usuario autenticado derivada de la sesión.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin indica si el usuario tiene el rol elevado.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// FullName nombre y apellido separados por espacio.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserProfile campos de perfil que se guardan en user_metadata.
type UserProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserRecord fila de la vista public.users (listado de administración).
type UserRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
