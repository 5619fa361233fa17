package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// PackageRepository tarifas de membresía.
type PackageRepository interface {
	// List ordena por annual_fee.
	List(ctx context.Context) ([]entity.MembershipPackage, error)
	// ActiveByType devuelve el paquete activo del tipo o nil.
	ActiveByType(ctx context.Context, t entity.MembershipType) (*entity.MembershipPackage, error)
	GetByName(ctx context.Context, name string) (*entity.MembershipPackage, error)
	Create(ctx context.Context, in entity.PackageFields) (*entity.MembershipPackage, error)
	Update(ctx context.Context, id string, patch entity.PackagePatch) (*entity.MembershipPackage, error)
}

// PaymentSettingsRepository fila única de configuración de la pasarela.
type PaymentSettingsRepository interface {
	// Get devuelve nil, nil si aún no hay configuración.
	Get(ctx context.Context) (*entity.PaymentGatewaySettings, error)
	// Save actualiza la fila existente (ID no vacío) o inserta una nueva.
	Save(ctx context.Context, s entity.PaymentGatewaySettings) (*entity.PaymentGatewaySettings, error)
}
