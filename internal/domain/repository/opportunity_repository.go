package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// OpportunityRepository puerto de persistencia de oportunidades de negocio.
type OpportunityRepository interface {
	// List incluye la empresa que publica; más recientes primero.
	List(ctx context.Context) ([]entity.BusinessOpportunity, error)
	GetByID(ctx context.Context, id string) (*entity.BusinessOpportunity, error)
	Create(ctx context.Context, in entity.OpportunityFields) (*entity.BusinessOpportunity, error)
	Update(ctx context.Context, id string, patch entity.OpportunityPatch) (*entity.BusinessOpportunity, error)
	Delete(ctx context.Context, id string) error
}
