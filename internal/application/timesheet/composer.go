package timesheet

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/worktime"
)

// maxLabelLength largo máximo de cliente, tarea y orden de trabajo.
const maxLabelLength = 200

// Input campos editables de un registro. nil = no informado.
type Input struct {
	Date      *string
	StartTime *string
	EndTime   *string
	Client    *string
	Task      *string
	WorkOrder *string
	IsHoliday *bool
}

// Owner identidad del dueño de un registro, ya resuelta.
type Owner struct {
	UserID      string
	Username    string
	DisplayName string
}

// Compose arma el registro completo a partir del anterior (nil en un alta) y la entrada.
// Los campos ausentes se toman del registro anterior; los derivados se recalculan siempre.
// No toca ID ni las marcas de creación: el llamador las decide según sea alta o edición.
func Compose(previous *entity.TimesheetEntry, in Input, owner Owner, actor access.Principal, now time.Time) (*entity.TimesheetEntry, error) {
	base := &entity.TimesheetEntry{}
	if previous != nil {
		base = previous
	}

	date := strings.TrimSpace(pick(in.Date, base.Date))
	if _, err := time.Parse(entity.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, date)
	}
	startTime := strings.TrimSpace(pick(in.StartTime, base.StartTime))
	endTime := strings.TrimSpace(pick(in.EndTime, base.EndTime))
	schedule, err := worktime.Compute(startTime, endTime)
	if err != nil {
		return nil, err
	}

	client := strings.TrimSpace(pick(in.Client, base.Client))
	task := strings.TrimSpace(pick(in.Task, base.Task))
	workOrder := strings.TrimSpace(pick(in.WorkOrder, base.WorkOrder))
	for _, f := range [...]struct{ name, value string }{{"client", client}, {"task", task}, {"work_order", workOrder}} {
		if utf8.RuneCountInString(f.value) > maxLabelLength {
			return nil, fmt.Errorf("%w: %s supera %d caracteres", domain.ErrInvalidInput, f.name, maxLabelLength)
		}
	}

	isHoliday := base.IsHoliday
	if in.IsHoliday != nil {
		isHoliday = *in.IsHoliday
	}
	holidayMinutes := 0
	if isHoliday {
		holidayMinutes = schedule.DurationMinutes
	}

	e := &entity.TimesheetEntry{
		UserID:          owner.UserID,
		Username:        owner.Username,
		UserDisplayName: owner.DisplayName,
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
		StartMinutes:    schedule.StartMinutes,
		DurationMinutes: schedule.DurationMinutes,
		NightMinutes:    schedule.NightMinutes,
		IsHoliday:       isHoliday,
		HolidayMinutes:  holidayMinutes,
		Client:          client,
		Task:            task,
		WorkOrder:       workOrder,
		UpdatedAt:       now,
		UpdatedBy:       actor.ID,
		UpdatedByName:   actor.Name(),
	}
	e.SearchText = SearchText(e)
	return e, nil
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

// SearchText texto de búsqueda libre: fecha, etiquetas y dueño, en minúsculas.
func SearchText(e *entity.TimesheetEntry) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{e.Date, e.Client, e.Task, e.WorkOrder, e.UserDisplayName, e.Username} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return fold(strings.Join(parts, " "))
}

// fold normaliza texto para comparaciones sin distinguir mayúsculas.
// cases.Caser guarda estado, por eso se crea uno por llamada.
func fold(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
