package access

import (
	"time"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// DefaultEditWindow ventana de edición para quien no gestiona horas.
const DefaultEditWindow = 24 * time.Hour

// EditPolicy autoridad de edición sobre registros de horas.
//
// Un gestor (timesheets.manage o rol admin) edita y borra cualquier registro sin límite.
// El resto solo actúa sobre sus propios registros y dentro de la ventana contada desde
// createdAt (o desde la medianoche UTC de la fecha si createdAt falta).
type EditPolicy struct {
	window time.Duration
}

// NewEditPolicy construye la política; una ventana no positiva usa la de 24 h.
func NewEditPolicy(window time.Duration) EditPolicy {
	if window <= 0 {
		window = DefaultEditWindow
	}
	return EditPolicy{window: window}
}

// Window duración de la ventana de edición.
func (p EditPolicy) Window() time.Duration { return p.window }

// Authorize devuelve nil si actor puede modificar o borrar e en el instante now,
// ErrForbidden si el registro no es suyo y ErrEditWindowExpired si la ventana cerró.
func (p EditPolicy) Authorize(actor Principal, e *entity.TimesheetEntry, now time.Time) error {
	if actor.IsManager() {
		return nil
	}
	if e == nil || e.UserID != actor.ID {
		return domain.ErrForbidden
	}
	start, ok := WindowStart(e)
	if !ok || now.Sub(start) > p.window {
		return domain.ErrEditWindowExpired
	}
	return nil
}

// CanEdit versión booleana de Authorize, pensada para habilitar botones en la UI.
func (p EditPolicy) CanEdit(actor Principal, e *entity.TimesheetEntry, now time.Time) bool {
	return p.Authorize(actor, e, now) == nil
}

// EditableUntil instante en que vence la ventana para actor. ok es false cuando no
// hay límite (gestores) o cuando el registro no es editable por actor.
func (p EditPolicy) EditableUntil(actor Principal, e *entity.TimesheetEntry) (time.Time, bool) {
	if actor.IsManager() || e == nil || e.UserID != actor.ID {
		return time.Time{}, false
	}
	start, ok := WindowStart(e)
	if !ok {
		return time.Time{}, false
	}
	return start.Add(p.window), true
}

// WindowStart inicio de la ventana de edición del registro.
func WindowStart(e *entity.TimesheetEntry) (time.Time, bool) {
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt, true
	}
	d, err := time.ParseInLocation(entity.DateLayout, e.Date, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// CanCreateFor informa si actor puede cargar horas a nombre de targetUserID.
func CanCreateFor(actor Principal, targetUserID string) bool {
	return targetUserID == "" || targetUserID == actor.ID || actor.IsManager()
}

// OwnerForCreate dueño efectivo de un registro nuevo: el pedido si CanCreateFor
// lo permite, el propio actor en otro caso. Un pedido ajeno sin permiso se ignora.
func OwnerForCreate(actor Principal, requested string) string {
	if requested != "" && CanCreateFor(actor, requested) {
		return requested
	}
	return actor.ID
}
