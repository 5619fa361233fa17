package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// Errores de inscripción.
var (
	ErrEventFull         = fmt.Errorf("%w: this event is fully booked", domain.ErrConflict)
	ErrAlreadyRegistered = fmt.Errorf("%w: you are already registered for this event", domain.ErrDuplicate)
)

// EventUseCase calendario de eventos e inscripciones.
type EventUseCase struct {
	d             Deps
	repo          repository.EventRepository
	registrations repository.RegistrationRepository
}

// NewEventUseCase construye el caso de uso.
func NewEventUseCase(d Deps, repo repository.EventRepository, registrations repository.RegistrationRepository) *EventUseCase {
	return &EventUseCase{d: d.withDefaults(), repo: repo, registrations: registrations}
}

// List eventos por fecha de inicio.
func (uc *EventUseCase) List(ctx context.Context) query.Result[[]entity.Event] {
	return query.Fetch(ctx, uc.d.Cache, entityKey(KeyEvents), detailRead, true, uc.repo.List)
}

// Get evento por id.
func (uc *EventUseCase) Get(ctx context.Context, id string) query.Result[*entity.Event] {
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyEvent, id), detailRead, ValidID(id),
		func(ctx context.Context) (*entity.Event, error) { return uc.repo.GetByID(ctx, id) })
}

func (uc *EventUseCase) invalidations(id string) []query.Key {
	keys := []query.Key{entityKey(KeyEvents), entityKey(KeyAdminStats)}
	if id != "" {
		keys = append(keys, scoped(KeyEvent, id))
	}
	return keys
}

// Create publica un evento (admin).
func (uc *EventUseCase) Create(ctx context.Context, in dto.EventRequest) (*entity.Event, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, domain.Field("end_date", "must not be before start_date")
	}
	fields := entity.EventFields{
		Title:            in.Title,
		Description:      in.Description,
		Location:         in.Location,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		EventType:        in.EventType,
		RegistrationLink: in.RegistrationLink,
		ImageURL:         in.ImageURL,
		Capacity:         in.Capacity,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Event created successfully",
		fallback:   "Failed to create event",
		invalidate: uc.invalidations(""),
	}, func(ctx context.Context) (*entity.Event, error) { return uc.repo.Create(ctx, fields) })
}

// Update edita un evento (admin).
func (uc *EventUseCase) Update(ctx context.Context, id string, in dto.UpdateEventRequest) (*entity.Event, error) {
	if _, err := uc.d.admin(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, domain.Field("end_date", "must not be before start_date")
	}
	patch := entity.EventPatch{
		Title:            in.Title,
		Description:      in.Description,
		Location:         in.Location,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		EventType:        in.EventType,
		RegistrationLink: in.RegistrationLink,
		ImageURL:         in.ImageURL,
		Capacity:         in.Capacity,
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Event updated successfully",
		fallback:   "Failed to update event",
		invalidate: uc.invalidations(id),
	}, func(ctx context.Context) (*entity.Event, error) { return uc.repo.Update(ctx, id, patch) })
}

// Delete elimina un evento (admin).
func (uc *EventUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.d.admin(); err != nil {
		return err
	}
	if !ValidID(id) {
		return domain.ErrNotFound
	}
	_, err := mutate(ctx, uc.d, mutation{
		success:    "Event deleted successfully",
		fallback:   "Failed to delete event",
		invalidate: uc.invalidations(id),
	}, func(ctx context.Context) (struct{}, error) { return struct{}{}, uc.repo.Delete(ctx, id) })
	return err
}

// Registrations inscripciones del usuario autenticado.
func (uc *EventUseCase) Registrations(ctx context.Context) query.Result[[]entity.EventRegistration] {
	u := uc.d.CurrentUser()
	userID := ""
	if u != nil {
		userID = u.ID
	}
	return query.Fetch(ctx, uc.d.Cache, scoped(KeyRegistrations, userID), defaultRead, userID != "",
		func(ctx context.Context) ([]entity.EventRegistration, error) {
			return uc.registrations.ListByUser(ctx, userID)
		})
}

// Register inscribe al usuario. Respeta el cupo y evita inscripciones duplicadas activas.
func (uc *EventUseCase) Register(ctx context.Context, eventID string) (*entity.EventRegistration, error) {
	u, err := uc.d.user()
	if err != nil {
		return nil, err
	}
	if !ValidID(eventID) {
		return nil, domain.ErrNotFound
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Successfully registered for event!",
		fallback:   "Failed to register for event",
		invalidate: []query.Key{scoped(KeyRegistrations, u.ID), scoped(KeyEvent, eventID)},
	}, func(ctx context.Context) (*entity.EventRegistration, error) {
		ev, err := uc.repo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, domain.ErrNotFound
		}
		mine, err := uc.registrations.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range mine {
			if r.EventID == eventID && r.Status != entity.RegistrationCancelled {
				return nil, ErrAlreadyRegistered
			}
		}
		if ev.Capacity != nil {
			n, err := uc.registrations.CountActive(ctx, eventID)
			if err != nil {
				return nil, err
			}
			if n >= *ev.Capacity {
				return nil, ErrEventFull
			}
		}
		return uc.registrations.Create(ctx, eventID, u.ID)
	})
}

// CancelRegistration cancela una inscripción propia.
func (uc *EventUseCase) CancelRegistration(ctx context.Context, registrationID string) (*entity.EventRegistration, error) {
	u, err := uc.d.user()
	if err != nil {
		return nil, err
	}
	if !ValidID(registrationID) {
		return nil, domain.ErrNotFound
	}
	return mutate(ctx, uc.d, mutation{
		success:    "Registration cancelled",
		fallback:   "Failed to cancel registration",
		invalidate: []query.Key{scoped(KeyRegistrations, u.ID), entityKey(KeyEvent)},
	}, func(ctx context.Context) (*entity.EventRegistration, error) {
		return uc.registrations.Cancel(ctx, registrationID, u.ID)
	})
}
