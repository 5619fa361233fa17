package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// List devuelve todas las empresas ordenadas por nombre.
	List(ctx context.Context) ([]entity.Company, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	ListByOwner(ctx context.Context, userID string) ([]entity.Company, error)
	Create(ctx context.Context, in entity.CompanyFields) (*entity.Company, error)
	Update(ctx context.Context, id string, patch entity.CompanyPatch) (*entity.Company, error)
	Delete(ctx context.Context, id string) error
}
