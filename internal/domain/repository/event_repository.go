package repository

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// EventRepository puerto de persistencia de eventos.
type EventRepository interface {
	// List ordena por start_date ascendente.
	List(ctx context.Context) ([]entity.Event, error)
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Create(ctx context.Context, in entity.EventFields) (*entity.Event, error)
	Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository inscripciones de usuarios a eventos.
type RegistrationRepository interface {
	Create(ctx context.Context, eventID, userID string) (*entity.EventRegistration, error)
	// ListByUser incluye el evento embebido.
	ListByUser(ctx context.Context, userID string) ([]entity.EventRegistration, error)
	// CountActive cuenta las inscripciones no canceladas de un evento.
	CountActive(ctx context.Context, eventID string) (int, error)
	// Cancel marca como cancelled una inscripción propia del usuario.
	Cancel(ctx context.Context, id, userID string) (*entity.EventRegistration, error)
}
