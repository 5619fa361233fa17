package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// ApplicationHandler solicitudes de membresía.
type ApplicationHandler struct{}

// NewApplicationHandler construye el handler.
func NewApplicationHandler() *ApplicationHandler { return &ApplicationHandler{} }

// Fee cuota anual vigente para un tipo de membresía.
// GET /api/applications/fee?type=sme
func (h *ApplicationHandler) Fee(c *fiber.Ctx) error {
	t := entity.MembershipType(c.Query("type"))
	if !t.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type must be one of sme corporate international"})
	}
	fee := GetSession(c).Portal.Applications.FeeFor(c.UserContext(), t)
	return c.JSON(fiber.Map{"membership_type": t, "annual_fee": fee})
}

// Submit godoc
// @Summary      Solicitar membresía para la empresa del usuario
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplicationRequest  true  "Solicitud"
// @Success      201   {object}  entity.MembershipApplication
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var in dto.ApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Applications.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ForCompany solicitudes de una empresa.
// GET /api/companies/:id/applications
func (h *ApplicationHandler) ForCompany(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Applications.ForCompany(c.UserContext(), c.Params("id")))
}

// List todas las solicitudes con el email del revisor (admin).
// GET /api/admin/applications
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Applications.List(c.UserContext()))
}

// Review aprueba o rechaza una solicitud pendiente (admin).
// POST /api/admin/applications/:id/review
func (h *ApplicationHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Applications.Review(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
