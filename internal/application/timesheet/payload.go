package timesheet

import "github.com/jhoicas/horas-api/internal/domain/entity"

// MovementPayload proyección plana de un registro para el log de auditoría.
// No incluye campos internos (texto de búsqueda, minutos de inicio).
type MovementPayload struct {
	TimesheetID     string `json:"timesheet_id"`
	UserID          string `json:"user_id"`
	UserDisplayName string `json:"user_display_name"`
	Username        string `json:"username"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Client          string `json:"client"`
	Task            string `json:"task"`
	WorkOrder       string `json:"work_order"`
	DurationMinutes int    `json:"duration_minutes"`
	NightMinutes    int    `json:"night_minutes"`
	IsHoliday       bool   `json:"is_holiday"`
}

// PayloadFor arma el payload de auditoría de e.
func PayloadFor(e *entity.TimesheetEntry) MovementPayload {
	return MovementPayload{
		TimesheetID:     e.ID,
		UserID:          e.UserID,
		UserDisplayName: e.UserDisplayName,
		Username:        e.Username,
		Date:            e.Date,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Client:          e.Client,
		Task:            e.Task,
		WorkOrder:       e.WorkOrder,
		DurationMinutes: e.DurationMinutes,
		NightMinutes:    e.NightMinutes,
		IsHoliday:       e.IsHoliday,
	}
}
