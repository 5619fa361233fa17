package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// UserRepository lectura de la vista public.users.
type UserRepository interface {
	// List más recientes primero.
	List(ctx context.Context) ([]entity.UserRecord, error)
	// EmailsByID resuelve id -> email para los ids dados.
	EmailsByID(ctx context.Context, ids []string) (map[string]string, error)
}

// NewUser alta administrativa de un usuario (email ya confirmado).
type NewUser struct {
	Email    string
	Password string
	Profile  entity.UserProfile
	Role     entity.Role
}

// UserAdmin operaciones administrativas sobre el proveedor de identidad.
// Requieren una credencial con privilegios de servicio.
type UserAdmin interface {
	CreateUser(ctx context.Context, in NewUser) (*entity.Identity, error)
	UpdateRole(ctx context.Context, userID string, role entity.Role) (*entity.Identity, error)
	DeleteUser(ctx context.Context, userID string) error
}
