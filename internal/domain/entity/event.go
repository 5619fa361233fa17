package entity

import "time"

// Tipos de evento.
const (
	EventWebinar    = "webinar"
	EventConference = "conference"
	EventWorkshop   = "workshop"
	EventNetworking = "networking"
)

// Event evento independiente con ventana horaria y cupo opcional.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	EventType        string    `json:"event_type"`
	RegistrationLink *string   `json:"registration_link,omitempty"`
	ImageURL         *string   `json:"image_url,omitempty"`
	Capacity         *int      `json:"capacity,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EventFields campos de alta de un evento.
type EventFields struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	EventType        string    `json:"event_type"`
	RegistrationLink *string   `json:"registration_link,omitempty"`
	ImageURL         *string   `json:"image_url,omitempty"`
	Capacity         *int      `json:"capacity,omitempty"`
}

// EventPatch actualización parcial de un evento.
type EventPatch struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Location         *string    `json:"location,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	EventType        *string    `json:"event_type,omitempty"`
	RegistrationLink *string    `json:"registration_link,omitempty"`
	ImageURL         *string    `json:"image_url,omitempty"`
	Capacity         *int       `json:"capacity,omitempty"`
}

// Estados de inscripción.
const (
	RegistrationRegistered = "registered"
	RegistrationAttended   = "attended"
	RegistrationCancelled  = "cancelled"
)

// EventRegistration inscripción de un usuario a un evento.
type EventRegistration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event *Event `json:"event,omitempty"`
}
