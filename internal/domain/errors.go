package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidSchedule   = errors.New("horarios inválidos")
	ErrEmptyDuration     = errors.New("la duración debe ser mayor a 0")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrEditWindowExpired = errors.New("solo podés editar durante las primeras 24 horas")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
)

// IsRetryable informa si el error proviene de una falla transitoria del store.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
