package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/auth"
	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/application/session"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/pkg/validation"
)

// AuthHandler autenticación de la sesión del portal.
type AuthHandler struct {
	sessions *session.Registry
	cookie   CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(reg *session.Registry, cc CookieConfig) *AuthHandler {
	return &AuthHandler{sessions: reg, cookie: cc}
}

// Session godoc
// @Summary      Estado de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	snap := GetSession(c).Auth.Snapshot()
	return c.JSON(dto.SessionResponse{State: snap.State.String(), User: snap.User})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	if err := validation.Struct(in); err != nil {
		return writeError(c, notify.Fail(s.Flash, err))
	}
	u, err := s.Auth.SignIn(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SIGN_IN_FAILED", Message: notify.ErrorMessage(err)})
		}
		return writeError(c, err)
	}
	// Id nuevo al autenticarse: una cookie conocida antes del login no da acceso a la sesión.
	setSessionCookie(c, h.cookie, h.sessions.Rotate(c.UserContext(), s))
	return c.JSON(dto.SessionResponse{State: s.Auth.Snapshot().State.String(), User: u})
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de registro"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	if err := validation.Struct(in); err != nil {
		return writeError(c, notify.Fail(s.Flash, err))
	}
	if _, err := s.Auth.SignUp(c.UserContext(), in.Email, in.Password, in.Profile()); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: auth.MsgSignedUp})
}

// ForgotPassword envía el enlace de recuperación.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	if err := validation.Struct(in); err != nil {
		return writeError(c, notify.Fail(s.Flash, err))
	}
	if err := s.Auth.ForgotPassword(c.UserContext(), in.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: auth.MsgResetSent})
}

// ResetPassword cambia la contraseña de la sesión actual.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	if err := validation.Struct(in); err != nil {
		return writeError(c, notify.Fail(s.Flash, err))
	}
	if err := s.Auth.ResetPassword(c.UserContext(), in.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: auth.MsgPasswordReset})
}

// Logout cierra la sesión. El estado local se limpia aunque el backend falle.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := GetSession(c).Auth.SignOut(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: auth.MsgSignedOut})
}
