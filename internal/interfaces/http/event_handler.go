package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
)

// EventHandler eventos e inscripciones.
type EventHandler struct{}

// NewEventHandler construye el handler.
func NewEventHandler() *EventHandler { return &EventHandler{} }

// List godoc
// @Summary      Listar eventos
// @Tags         events
// @Produce      json
// @Success      200  {object}  dto.ListResponse[entity.Event]
// @Router       /api/events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Events.List(c.UserContext()))
}

// Get detalle de un evento.
// GET /api/events/:id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	return respondOne(c, GetSession(c).Portal.Events.Get(c.UserContext(), c.Params("id")))
}

// Create alta de evento (admin).
// POST /api/events
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var in dto.EventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Events.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edición parcial (admin).
// PATCH /api/events/:id
func (h *EventHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Events.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete baja de evento (admin).
// DELETE /api/events/:id
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := GetSession(c).Portal.Events.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Register inscribe al usuario actual.
// POST /api/events/:id/register
func (h *EventHandler) Register(c *fiber.Ctx) error {
	out, err := GetSession(c).Portal.Events.Register(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Registrations inscripciones del usuario actual.
// GET /api/events/registrations
func (h *EventHandler) Registrations(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Events.Registrations(c.UserContext()))
}

// Cancel cancela una inscripción propia.
// POST /api/events/registrations/:id/cancel
func (h *EventHandler) Cancel(c *fiber.Ctx) error {
	out, err := GetSession(c).Portal.Events.CancelRegistration(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
