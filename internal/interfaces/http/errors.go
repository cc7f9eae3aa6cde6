package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// errorMapping código HTTP y código de error por cada error de dominio.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidSchedule, fiber.StatusBadRequest, "INVALID_SCHEDULE"},
	{domain.ErrEmptyDuration, fiber.StatusBadRequest, "EMPTY_DURATION"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrEditWindowExpired, fiber.StatusForbidden, "EDIT_WINDOW_EXPIRED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// statusFor traduce err a status HTTP y código.
func statusFor(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe dto.ErrorResponse. Los 5xx se registran y no exponen detalles.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("error atendiendo request")
		if status == fiber.StatusInternalServerError {
			msg = "error interno"
		} else {
			msg = domain.ErrStoreUnavailable.Error() + ", intente más tarde"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador de errores de Fiber para lo que no atienden los handlers.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}
