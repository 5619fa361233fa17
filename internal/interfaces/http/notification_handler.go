package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
)

// NotificationHandler avisos de la sesión y errores del navegador.
type NotificationHandler struct {
	log      zerolog.Logger
	reporter ErrorReporter
}

// NewNotificationHandler construye el handler. reporter puede ser nil.
func NewNotificationHandler(log zerolog.Logger, reporter ErrorReporter) *NotificationHandler {
	return &NotificationHandler{log: log, reporter: reporter}
}

// Drain devuelve y vacía la cola de avisos de la sesión.
// GET /api/notifications
func (h *NotificationHandler) Drain(c *fiber.Ctx) error {
	items := GetSession(c).Flash.Drain()
	return c.JSON(dto.NewList[notify.Notification](items))
}

// LogError registra un error de renderizado del navegador.
// POST /api/log-error
func (h *NotificationHandler) LogError(c *fiber.Ctx) error {
	var in dto.ClientErrorReport
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	h.log.Error().
		Str("message", in.Error.Message).
		Str("name", in.Error.Name).
		Str("stack", in.Error.Stack).
		Str("component_stack", in.ErrorInfo.ComponentStack).
		Str("url", in.URL).
		Str("timestamp", in.Timestamp).
		Msg("error del cliente")
	if h.reporter != nil {
		h.reporter.Report(in)
	}
	return c.SendStatus(fiber.StatusAccepted)
}
