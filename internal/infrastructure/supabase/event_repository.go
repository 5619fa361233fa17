package supabase

import (
	"context"

	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
)

var (
	_ repository.EventRepository        = (*EventRepo)(nil)
	_ repository.RegistrationRepository = (*RegistrationRepo)(nil)
)

// EventRepo tabla events.
type EventRepo struct {
	rest
}

// NewEventRepository construye el adaptador.
func NewEventRepository(c *Client, tokens TokenSource) *EventRepo {
	return &EventRepo{rest{c: c, tokens: tokens}}
}

func (r *EventRepo) List(ctx context.Context) ([]entity.Event, error) {
	return list[entity.Event](ctx, r.from(ctx, "events").Select("*").Order("start_date", true))
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	return one[entity.Event](ctx, r.from(ctx, "events").Select("*").Eq("id", id))
}

func (r *EventRepo) Create(ctx context.Context, in entity.EventFields) (*entity.Event, error) {
	return single[entity.Event](ctx, r.from(ctx, "events").Insert(in).Select("*"))
}

func (r *EventRepo) Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	return single[entity.Event](ctx, r.from(ctx, "events").Update(patch).Eq("id", id).Select("*"))
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	return r.from(ctx, "events").Delete().Eq("id", id).Execute(ctx, nil)
}

// RegistrationRepo tabla event_registrations.
type RegistrationRepo struct {
	rest
}

// NewRegistrationRepository construye el adaptador.
func NewRegistrationRepository(c *Client, tokens TokenSource) *RegistrationRepo {
	return &RegistrationRepo{rest{c: c, tokens: tokens}}
}

type registrationInsert struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

func (r *RegistrationRepo) Create(ctx context.Context, eventID, userID string) (*entity.EventRegistration, error) {
	return single[entity.EventRegistration](ctx, r.from(ctx, "event_registrations").
		Insert(registrationInsert{EventID: eventID, UserID: userID, Status: entity.RegistrationRegistered}).
		Select("*"))
}

func (r *RegistrationRepo) ListByUser(ctx context.Context, userID string) ([]entity.EventRegistration, error) {
	return list[entity.EventRegistration](ctx, r.from(ctx, "event_registrations").
		Select("*, event:events(*)").
		Eq("user_id", userID).
		Order("created_at", false))
}

func (r *RegistrationRepo) CountActive(ctx context.Context, eventID string) (int, error) {
	return r.from(ctx, "event_registrations").
		Eq("event_id", eventID).
		Neq("status", entity.RegistrationCancelled).
		Count(ctx)
}

func (r *RegistrationRepo) Cancel(ctx context.Context, id, userID string) (*entity.EventRegistration, error) {
	return single[entity.EventRegistration](ctx, r.from(ctx, "event_registrations").
		Update(map[string]string{"status": entity.RegistrationCancelled}).
		Eq("id", id).
		Eq("user_id", userID).
		Select("*"))
}
