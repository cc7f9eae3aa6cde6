package repository

import (
	"context"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// Orden de los listados de horas (por fecha y luego por hora de inicio).
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TimesheetQuery alcance de una lectura de horas contra el store.
// Date tiene prioridad sobre From/To; los rangos son inclusivos y comparan YYYY-MM-DD como texto.
type TimesheetQuery struct {
	UserID string
	Date   string
	From   string
	To     string
	Limit  int
	Order  string
}

// TimesheetRepository define el puerto de persistencia para registros de horas.
// Cada operación es atómica sobre un único documento; no hay transacciones entre registros.
type TimesheetRepository interface {
	// Create persiste el registro y le asigna ID.
	Create(ctx context.Context, entry *entity.TimesheetEntry) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.TimesheetEntry, error)
	// Update reemplaza el registro completo; domain.ErrNotFound si no existe.
	Update(ctx context.Context, entry *entity.TimesheetEntry) error
	// Delete borra definitivamente; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q TimesheetQuery) ([]*entity.TimesheetEntry, error)
}
