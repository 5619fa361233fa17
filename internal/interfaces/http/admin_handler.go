package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// AdminHandler panel de administración: estadísticas, usuarios, paquetes y pasarela de pagos.
type AdminHandler struct{}

// NewAdminHandler construye el handler.
func NewAdminHandler() *AdminHandler { return &AdminHandler{} }

// Stats godoc
// @Summary      Estadísticas del panel
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.AdminStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	r, err := GetSession(c).Portal.AdminStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, r)
}

// Users listado con búsqueda y filtro de rol.
// GET /api/admin/users?search=&role=
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := validation.Struct(q); err != nil {
		return writeError(c, err)
	}
	return respondList(c, GetSession(c).Portal.Users.List(c.UserContext(), q))
}

// CreateUser alta con email confirmado.
// POST /api/admin/users
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Users.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRole cambio de rol.
// PATCH /api/admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Users.UpdateRole(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteUser baja de usuario.
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := GetSession(c).Portal.Users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Packages paquetes ordenados por cuota.
// GET /api/admin/packages
func (h *AdminHandler) Packages(c *fiber.Ctx) error {
	return respondList(c, GetSession(c).Portal.Packages.List(c.UserContext()))
}

// CreatePackage alta de paquete.
// POST /api/admin/packages
func (h *AdminHandler) CreatePackage(c *fiber.Ctx) error {
	var in dto.PackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Packages.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePackage edición parcial de paquete.
// PATCH /api/admin/packages/:id
func (h *AdminHandler) UpdatePackage(c *fiber.Ctx) error {
	var in dto.UpdatePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Packages.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentSettings configuración de la pasarela con los secretos enmascarados.
// GET /api/admin/payment-settings
func (h *AdminHandler) PaymentSettings(c *fiber.Ctx) error {
	return respond(c, GetSession(c).Portal.PaymentSettings.Get(c.UserContext()))
}

// SavePaymentSettings guarda la configuración; un secreto vacío conserva el actual.
// PUT /api/admin/payment-settings
func (h *AdminHandler) SavePaymentSettings(c *fiber.Ctx) error {
	var in dto.PaymentSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.PaymentSettings.Save(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
