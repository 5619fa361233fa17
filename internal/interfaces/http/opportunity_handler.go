package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
)

// OpportunityHandler oportunidades de negocio.
type OpportunityHandler struct{}

// NewOpportunityHandler construye el handler.
func NewOpportunityHandler() *OpportunityHandler { return &OpportunityHandler{} }

// List oportunidades con su empresa.
// GET /api/opportunities
func (h *OpportunityHandler) List(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Opportunities.List(c.UserContext()))
}

// Get detalle de una oportunidad.
// GET /api/opportunities/:id
func (h *OpportunityHandler) Get(c *fiber.Ctx) error {
	return respondOne(c, GetSession(c).Portal.Opportunities.Get(c.UserContext(), c.Params("id")))
}

// Create publica una oportunidad a nombre de una empresa propia.
// POST /api/opportunities
func (h *OpportunityHandler) Create(c *fiber.Ctx) error {
	var in dto.OpportunityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Opportunities.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edición parcial.
// PATCH /api/opportunities/:id
func (h *OpportunityHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOpportunityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Opportunities.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete baja de la oportunidad.
// DELETE /api/opportunities/:id
func (h *OpportunityHandler) Delete(c *fiber.Ctx) error {
	if err := GetSession(c).Portal.Opportunities.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
