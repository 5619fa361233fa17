package http

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/auth"
	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/notify"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
)

// Respuesta de la frontera superior: cualquier error no controlado termina aquí.
var fallbackError = dto.ErrorResponse{Code: "INTERNAL", Message: "Something went wrong", Action: "reload"}

// ErrorReporter destino asíncrono de errores no controlados.
type ErrorReporter interface {
	Report(dto.ClientErrorReport)
}

const localPanicStack = "panic_stack"

// PanicStack guarda la pila del panic para el reporte de ErrorHandler. Se usa como
// StackTraceHandler del middleware recover: corre en la goroutine que entró en pánico.
func PanicStack(c *fiber.Ctx, _ any) {
	c.Locals(localPanicStack, string(debug.Stack()))
}

// writeError traduce err a status + dto.ErrorResponse. El mensaje es el visible para el usuario.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error(), RedirectTo: auth.LoginPath})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrNetwork):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "NETWORK", Message: notify.ErrorMessage(err)})
	case errors.Is(err, domain.ErrMissingConfig):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: err.Error()})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP", Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "BACKEND", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
}

// respond serializa una lectura: Loaded -> 200, Failed -> error, Skipped -> 404.
func respond[T any](c *fiber.Ctx, r query.Result[T]) error {
	switch r.Status {
	case query.Loaded:
		return c.JSON(r.Data)
	case query.Failed:
		return writeError(c, r.Err)
	default:
		return writeError(c, domain.ErrNotFound)
	}
}

// respondOne como respond, pero un nil cargado también es 404.
func respondOne[T any](c *fiber.Ctx, r query.Result[*T]) error {
	if r.Status == query.Loaded && r.Data == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return respond(c, r)
}

// respondList envuelve el listado en dto.ListResponse.
func respondList[T any](c *fiber.Ctx, r query.Result[[]T]) error {
	switch r.Status {
	case query.Loaded:
		return c.JSON(dto.NewList(r.Data))
	case query.Failed:
		return writeError(c, r.Err)
	default:
		return c.JSON(dto.NewList[T](nil))
	}
}

// ErrorHandler frontera superior de fiber. Responde siempre el cuerpo de recuperación y,
// si hay reporter, envía el error sin esperar.
func ErrorHandler(log zerolog.Logger, reporter ErrorReporter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP", Message: fe.Message})
		}
		stack, _ := c.Locals(localPanicStack).(string)
		ev := log.Error().Err(err).Str("route", c.Path()).Str("request_id", requestID(c))
		if stack != "" {
			ev = ev.Str("stack", stack)
		}
		ev.Msg("error no controlado")
		if reporter != nil {
			var rep dto.ClientErrorReport
			rep.Error.Message = err.Error()
			rep.Error.Name = fmt.Sprintf("%T", err)
			rep.Error.Stack = stack
			rep.ErrorInfo.ComponentStack = c.Method() + " " + c.Route().Path
			rep.Timestamp = time.Now().UTC().Format(time.RFC3339)
			rep.URL = c.OriginalURL()
			reporter.Report(rep)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fallbackError)
	}
}
