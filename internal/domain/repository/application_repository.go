package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// ApplicationRepository puerto de persistencia de solicitudes de membresía.
type ApplicationRepository interface {
	// List devuelve todas las solicitudes (más recientes primero) con el nombre de la empresa.
	List(ctx context.Context) ([]entity.MembershipApplication, error)
	ListByCompany(ctx context.Context, companyID string) ([]entity.MembershipApplication, error)
	Create(ctx context.Context, in entity.ApplicationFields) (*entity.MembershipApplication, error)
	// Review aplica la revisión solo si la solicitud sigue pendiente.
	// Devuelve domain.ErrConflict si ya fue revisada y domain.ErrNotFound si no existe.
	Review(ctx context.Context, id string, review entity.ApplicationReview) (*entity.MembershipApplication, error)
}
