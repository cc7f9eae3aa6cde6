package timesheet

import (
	"time"

	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
)

func toTimesheetResponse(e *entity.TimesheetEntry, actor access.Principal, policy access.EditPolicy, now time.Time) dto.TimesheetResponse {
	r := dto.TimesheetResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		Username:        e.Username,
		UserDisplayName: e.UserDisplayName,
		Date:            e.Date,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		NightMinutes:    e.NightMinutes,
		IsHoliday:       e.IsHoliday,
		HolidayMinutes:  e.HolidayMinutes,
		Client:          e.Client,
		Task:            e.Task,
		WorkOrder:       e.WorkOrder,
		CreatedBy:       e.CreatedBy,
		CreatedByName:   e.CreatedByName,
		UpdatedAt:       e.UpdatedAt,
		UpdatedBy:       e.UpdatedBy,
		UpdatedByName:   e.UpdatedByName,
		CanEdit:         policy.CanEdit(actor, e, now),
	}
	if !e.CreatedAt.IsZero() {
		createdAt := e.CreatedAt
		r.CreatedAt = &createdAt
	}
	if until, ok := policy.EditableUntil(actor, e); ok {
		r.EditableUntil = &until
	}
	return r
}

func toSummaryRow(r SummaryRow, nightOnly bool) dto.TimesheetSummaryRow {
	total := r.Total(nightOnly)
	return dto.TimesheetSummaryRow{
		UserID:         r.UserID,
		DisplayName:    r.DisplayName,
		Username:       r.Username,
		NormalMinutes:  r.NormalMinutes,
		HolidayMinutes: r.HolidayMinutes,
		NightMinutes:   r.NightMinutes,
		TotalMinutes:   total,
		NormalHours:    Hours(r.NormalMinutes),
		HolidayHours:   Hours(r.HolidayMinutes),
		NightHours:     Hours(r.NightMinutes),
		TotalHours:     Hours(total),
	}
}

func toInput(in dto.TimesheetInput) Input {
	return Input{
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Client:    in.Client,
		Task:      in.Task,
		WorkOrder: in.WorkOrder,
		IsHoliday: in.IsHoliday,
	}
}

func criteriaFrom(req dto.TimesheetQueryRequest) Criteria {
	nightOnly := ParseBool(req.NightOnly)
	return Criteria{
		Client:    req.Client,
		Task:      req.Task,
		WorkOrder: req.WorkOrder,
		User:      req.User,
		Q:         req.Q,
		IsHoliday: ParseBool(req.IsHoliday),
		NightOnly: nightOnly != nil && *nightOnly,
	}
}
