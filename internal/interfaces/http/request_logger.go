package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/pkg/logger"
)

// RequestLogger registra cada request con método, ruta, status, latencia y usuario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		}
		userID := ""
		if p, ok := GetPrincipal(c); ok {
			userID = p.ID
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", userID).
			Msg("request")
		return err
	}
}
