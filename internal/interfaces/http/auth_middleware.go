package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"

	"github.com/jhoicas/gncci-portal/internal/application/auth"
	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/session"
)

const localSession = "portal_session"

// CookieConfig cookie que identifica la sesión del portal.
type CookieConfig struct {
	Name   string
	Key    string // base64; vacío = clave aleatoria del proceso
	Secure bool
	MaxAge time.Duration
}

func (cc CookieConfig) withDefaults() CookieConfig {
	if cc.Name == "" {
		cc.Name = "gncci_session"
	}
	if cc.Key == "" {
		cc.Key = encryptcookie.GenerateKey()
	}
	return cc
}

// EncryptCookies cifra la cookie de sesión: el cliente no puede elegir el id, y un valor
// que no descifra llega vacío y recibe una sesión nueva.
func EncryptCookies(cc CookieConfig) fiber.Handler {
	return encryptcookie.New(encryptcookie.Config{Key: cc.Key})
}

// Sessions resuelve (o crea) la sesión del portal a partir de la cookie y la deja en c.Locals.
// Si se crea una sesión nueva se emite la cookie.
func Sessions(reg *session.Registry, cc CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, created := reg.Get(c.UserContext(), c.Cookies(cc.Name))
		if created {
			setSessionCookie(c, cc, s.ID())
		}
		c.Locals(localSession, s)
		return c.Next()
	}
}

func setSessionCookie(c *fiber.Ctx, cc CookieConfig, id string) {
	ck := &fiber.Cookie{
		Name:     cc.Name,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if cc.MaxAge > 0 {
		ck.MaxAge = int(cc.MaxAge.Seconds())
	}
	c.Cookie(ck)
}

// GetSession sesión del portal de la petición (después de Sessions).
func GetSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(localSession).(*session.Session)
	return s
}

// RequireSession exige un usuario autenticado.
func RequireSession() fiber.Handler { return guard(false) }

// RequireAdmin exige un usuario con rol admin.
func RequireAdmin() fiber.Handler { return guard(true) }

// guard aplica auth.Evaluate. Una navegación del navegador recibe la redirección;
// una llamada de API, 401/403 con el mismo redirect_to.
func guard(requireAdmin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var snap auth.Snapshot
		if s := GetSession(c); s != nil {
			snap = s.Auth.Snapshot()
		}
		d := auth.Evaluate(snap, requireAdmin)
		if d.Allow {
			return c.Next()
		}
		if wantsHTML(c) {
			return c.Redirect(d.RedirectTo, fiber.StatusFound)
		}
		if d.RedirectTo == auth.LoginPath {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "UNAUTHORIZED", Message: "sign in required", RedirectTo: d.RedirectTo,
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "admin access required", RedirectTo: d.RedirectTo,
		})
	}
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
