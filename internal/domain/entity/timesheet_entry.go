package entity

import "time"

// DateLayout formato de la fecha de negocio de un registro (lexicográficamente ordenable).
const DateLayout = "2006-01-02"

// TimesheetEntry representa un turno cargado por un empleado, ya valorizado.
type TimesheetEntry struct {
	ID              string
	UserID          string
	Username        string
	UserDisplayName string
	Date            string // YYYY-MM-DD, día de negocio del turno
	StartTime       string // HH:MM
	EndTime         string // HH:MM; menor que StartTime = cruza la medianoche
	StartMinutes    int    // derivado, solo para ordenar
	DurationMinutes int
	NightMinutes    int
	IsHoliday       bool
	HolidayMinutes  int // DurationMinutes si IsHoliday, 0 si no
	Client          string
	Task            string
	WorkOrder       string
	SearchText      string // derivado, minúsculas
	CreatedAt       time.Time // cero = ausente (registros legados)
	CreatedBy       string
	CreatedByName   string
	UpdatedAt       time.Time
	UpdatedBy       string
	UpdatedByName   string
}

// Clone devuelve una copia superficial (todos los campos son valores).
func (e *TimesheetEntry) Clone() *TimesheetEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
