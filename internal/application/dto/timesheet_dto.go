package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimesheetInput cuerpo de alta y edición de un registro de horas.
// En la edición los campos ausentes conservan el valor guardado.
type TimesheetInput struct {
	UserID    *string `json:"user_id,omitempty"`
	Date      *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,len=5"`
	EndTime   *string `json:"end_time,omitempty" validate:"omitempty,len=5"`
	Client    *string `json:"client,omitempty" validate:"omitempty,max=200"`
	Task      *string `json:"task,omitempty" validate:"omitempty,max=200"`
	WorkOrder *string `json:"work_order,omitempty" validate:"omitempty,max=200"`
	IsHoliday *bool   `json:"is_holiday,omitempty"`
}

// TimesheetResponse registro de horas tal como lo ve el cliente (sin campos internos).
type TimesheetResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	UserDisplayName string     `json:"user_display_name"`
	Date            string     `json:"date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	NightMinutes    int        `json:"night_minutes"`
	IsHoliday       bool       `json:"is_holiday"`
	HolidayMinutes  int        `json:"holiday_minutes"`
	Client          string     `json:"client"`
	Task            string     `json:"task"`
	WorkOrder       string     `json:"work_order"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	CreatedByName   string     `json:"created_by_name,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
	UpdatedBy       string     `json:"updated_by"`
	UpdatedByName   string     `json:"updated_by_name"`
	// CanEdit y EditableUntil son orientativos para la UI; el servidor vuelve a decidir.
	CanEdit       bool       `json:"can_edit"`
	EditableUntil *time.Time `json:"editable_until,omitempty"`
}

// TimesheetListResponse listado de registros.
type TimesheetListResponse struct {
	Items []TimesheetResponse `json:"items"`
	Total int                 `json:"total"`
}

// TimesheetQueryRequest parámetros de consulta de listados y resúmenes.
// user_id, date, from, to, limit y order acotan la lectura al store; el resto filtra en memoria.
type TimesheetQueryRequest struct {
	UserID    string `query:"user_id"`
	Date      string `query:"date"`
	From      string `query:"from"`
	To        string `query:"to"`
	Limit     int    `query:"limit"`
	Order     string `query:"order"`
	Client    string `query:"client"`
	Task      string `query:"task"`
	WorkOrder string `query:"work_order"`
	User      string `query:"user"`
	Q         string `query:"q"`
	IsHoliday string `query:"is_holiday"`
	NightOnly string `query:"night_only"`
}

// TimesheetSummaryRow totales de un usuario. Las horas son decimales con dos dígitos.
type TimesheetSummaryRow struct {
	UserID         string          `json:"user_id"`
	DisplayName    string          `json:"display_name"`
	Username       string          `json:"username"`
	NormalMinutes  int             `json:"normal_minutes"`
	HolidayMinutes int             `json:"holiday_minutes"`
	NightMinutes   int             `json:"night_minutes"`
	TotalMinutes   int             `json:"total_minutes"`
	NormalHours    decimal.Decimal `json:"normal_hours"`
	HolidayHours   decimal.Decimal `json:"holiday_hours"`
	NightHours     decimal.Decimal `json:"night_hours"`
	TotalHours     decimal.Decimal `json:"total_hours"`
}

// TimesheetSummaryResponse resumen por usuario para un período.
type TimesheetSummaryResponse struct {
	From      string                `json:"from,omitempty"`
	To        string                `json:"to,omitempty"`
	Date      string                `json:"date,omitempty"`
	NightOnly bool                  `json:"night_only"`
	Rows      []TimesheetSummaryRow `json:"rows"`
	Totals    TimesheetSummaryRow   `json:"totals"`
	Entries   int                   `json:"entries"`
}
