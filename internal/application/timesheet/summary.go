package timesheet

import (
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// SummaryRow totales acumulados de un usuario.
type SummaryRow struct {
	UserID         string
	DisplayName    string
	Username       string
	NormalMinutes  int
	HolidayMinutes int
	NightMinutes   int
}

// Total minutos totales para mostrar. En la vista solo-nocturna el total son los nocturnos.
func (r SummaryRow) Total(nightOnly bool) int {
	if nightOnly {
		return r.NightMinutes
	}
	return r.NormalMinutes + r.HolidayMinutes + r.NightMinutes
}

// Summarize agrupa por usuario. Un turno feriado no suma minutos normales,
// pero su parte nocturna sí se acumula en los nocturnos.
// Las filas salen ordenadas por nombre a mostrar con collation en español.
func Summarize(entries iter.Seq[*entity.TimesheetEntry]) []SummaryRow {
	byUser := map[string]*SummaryRow{}
	order := make([]string, 0)
	for e := range entries {
		row, ok := byUser[e.UserID]
		if !ok {
			name := e.UserDisplayName
			if name == "" {
				name = e.Username
			}
			row = &SummaryRow{UserID: e.UserID, DisplayName: name, Username: e.Username}
			byUser[e.UserID] = row
			order = append(order, e.UserID)
		}
		row.HolidayMinutes += e.HolidayMinutes
		row.NightMinutes += e.NightMinutes
		if !e.IsHoliday {
			row.NormalMinutes += max(e.DurationMinutes-e.NightMinutes, 0)
		}
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byUser[id])
	}
	col := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortStableFunc(rows, func(a, b SummaryRow) int {
		if c := col.CompareString(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return rows
}

// Totals suma todas las filas.
func Totals(rows []SummaryRow) SummaryRow {
	var t SummaryRow
	for _, r := range rows {
		t.NormalMinutes += r.NormalMinutes
		t.HolidayMinutes += r.HolidayMinutes
		t.NightMinutes += r.NightMinutes
	}
	return t
}

var sixty = decimal.NewFromInt(60)

// Hours convierte minutos a horas decimales redondeadas a dos dígitos.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}
