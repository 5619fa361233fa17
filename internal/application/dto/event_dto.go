package dto

import "time"

// EventRequest alta de evento.
type EventRequest struct {
	Title            string    `json:"title" validate:"required,max=200"`
	Description      string    `json:"description" validate:"required"`
	Location         string    `json:"location" validate:"required"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	EndDate          time.Time `json:"end_date" validate:"required"`
	EventType        string    `json:"event_type" validate:"required,oneof=webinar conference workshop networking"`
	RegistrationLink *string   `json:"registration_link" validate:"omitempty,url"`
	ImageURL         *string   `json:"image_url" validate:"omitempty,url"`
	Capacity         *int      `json:"capacity" validate:"omitempty,min=1"`
}

// UpdateEventRequest edición parcial de un evento.
type UpdateEventRequest struct {
	Title            *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	EventType        *string    `json:"event_type" validate:"omitempty,oneof=webinar conference workshop networking"`
	RegistrationLink *string    `json:"registration_link" validate:"omitempty,url"`
	ImageURL         *string    `json:"image_url" validate:"omitempty,url"`
	Capacity         *int       `json:"capacity" validate:"omitempty,min=1"`
}
