package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
)

// CompanyHandler directorio de miembros y perfiles de empresa.
type CompanyHandler struct{}

// NewCompanyHandler construye el handler.
func NewCompanyHandler() *CompanyHandler { return &CompanyHandler{} }

// Directory godoc
// @Summary      Directorio de miembros
// @Tags         companies
// @Produce      json
// @Param        search  query  string  false  "Texto sobre nombre y descripción"
// @Param        sector  query  string  false  "Sector (all = todos)"
// @Success      200     {object}  dto.DirectoryResponse
// @Router       /api/directory [get]
func (h *CompanyHandler) Directory(c *fiber.Ctx) error {
	var q dto.DirectoryQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Companies.Directory(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Mine empresas del usuario autenticado.
// GET /api/companies/mine
func (h *CompanyHandler) Mine(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Companies.Mine(c.UserContext()))
}

// Profile godoc
// @Summary      Perfil de empresa con su membresía actual
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) Profile(c *fiber.Ctx) error {
	id := c.Params("id")
	uc := GetSession(c).Portal.Companies
	company := uc.Get(c.UserContext(), id)
	if company.Status == query.Failed {
		return writeError(c, company.Err)
	}
	if company.Data == nil {
		return writeError(c, domain.ErrNotFound)
	}
	ms := uc.CurrentMembership(c.UserContext(), id)
	if ms.Status == query.Failed {
		return writeError(c, ms.Err)
	}
	return c.JSON(dto.CompanyProfileResponse{Company: company.Data, Membership: ms.Data})
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  entity.Company
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Companies.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Location("/directory/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edita el perfil (dueño o admin).
// PATCH /api/companies/:id
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Companies.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina la empresa (dueño o admin).
// DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := GetSession(c).Portal.Companies.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
