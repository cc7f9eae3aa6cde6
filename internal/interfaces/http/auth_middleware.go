package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
)

// LocalPrincipal key de Fiber Locals con el access.Principal autenticado.
const LocalPrincipal = "principal"

// Authenticator resuelve el principal a partir del bearer token.
// Lo implementa *auth.PrincipalResolver.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Principal, error)
}

// AuthMiddleware valida el Bearer Token, resuelve usuario y roles y deja el
// principal en c.Locals para los guards y handlers.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		principal, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "no se pudo verificar el usuario, intente más tarde"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalPrincipal, principal)
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) (access.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(access.Principal)
	return p, ok
}

// RequireCapability deja pasar si el principal tiene al menos una de las capacidades.
// El rol admin pasa siempre. Debe usarse DESPUÉS de AuthMiddleware.
func RequireCapability(caps ...access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		if p.IsAdmin() || p.Caps.Any(caps...) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso insuficiente"})
	}
}
