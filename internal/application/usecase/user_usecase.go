package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// UserUseCase gestión de usuarios del portal (admin).
type UserUseCase struct {
	d     Deps
	repo  repository.UserRepository
	admin repository.UserAdmin
}

// NewUserUseCase construye el caso de uso. admin opera con la credencial de servicio.
func NewUserUseCase(d Deps, repo repository.UserRepository, admin repository.UserAdmin) *UserUseCase {
	return &UserUseCase{d: d.withDefaults(), repo: repo, admin: admin}
}

// List usuarios filtrados por texto (email o nombre completo) y rol.
func (uc *UserUseCase) List(ctx context.Context, q dto.UserListQuery) query.Result[[]entity.UserRecord] {
	_, err := uc.d.admin()
	r := query.Fetch(ctx, uc.d.Cache, entityKey(KeyUsers), defaultRead, err == nil, uc.repo.List)
	if r.Data != nil {
		r.Data = FilterUsers(r.Data, q)
	}
	return r
}

// FilterUsers aplica el buscador de la gestión de usuarios.
func FilterUsers(users []entity.UserRecord, q dto.UserListQuery) []entity.UserRecord {
	term := foldString(strings.TrimSpace(q.Search))
	role := entity.Role(q.Role)
	out := make([]entity.UserRecord, 0, len(users))
	for _, u := range users {
		if role != "" && role != "all" && u.Role != role {
			continue
		}
		if term != "" {
			full := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if !containsFolded(u.Email, term) && !containsFolded(full, term) {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// Create alta de usuario con email confirmado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*entity.Identity, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	nu := repository.NewUser{
		Email:    in.Email,
		Password: in.Password,
		Profile:  entity.UserProfile{FirstName: in.FirstName, LastName: in.LastName, Phone: in.Phone},
		Role:     entity.ParseRole(in.Role),
	}
	return mutate(ctx, uc.d, mutation{
		success:    "User created successfully",
		fallback:   "Failed to create user",
		invalidate: []query.Key{entityKey(KeyUsers)},
	}, func(ctx context.Context) (*entity.Identity, error) { return uc.admin.CreateUser(ctx, nu) })
}

// UpdateRole cambia el rol. Un administrador no puede quitarse su propio rol.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID string, in dto.UpdateRoleRequest) (*entity.Identity, error) {
	me, err := uc.d.admin()
	if err != nil {
		return nil, err
	}
	if !ValidID(userID) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role := entity.ParseRole(in.Role)
	if userID == me.ID && role != entity.RoleAdmin {
		return nil, domain.Field("role", "you cannot remove your own admin role")
	}
	return mutate(ctx, uc.d, mutation{
		success:    "User role updated successfully",
		fallback:   "Failed to update user role",
		invalidate: []query.Key{entityKey(KeyUsers)},
	}, func(ctx context.Context) (*entity.Identity, error) { return uc.admin.UpdateRole(ctx, userID, role) })
}

// Delete elimina un usuario distinto del actual.
func (uc *UserUseCase) Delete(ctx context.Context, userID string) error {
	me, err := uc.d.admin()
	if err != nil {
		return err
	}
	if !ValidID(userID) {
		return domain.ErrNotFound
	}
	if userID == me.ID {
		return domain.Field("id", "you cannot delete your own account")
	}
	_, err = mutate(ctx, uc.d, mutation{
		success:    "User deleted successfully",
		fallback:   "Failed to delete user",
		invalidate: []query.Key{entityKey(KeyUsers), entityKey(KeyAdminStats)},
	}, func(ctx context.Context) (struct{}, error) { return struct{}{}, uc.admin.DeleteUser(ctx, userID) })
	return err
}
