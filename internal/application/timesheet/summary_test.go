package timesheet_test

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/entity"
)

func TestSummarize_FeriadoNoSumaNormales(t *testing.T) {
	entries := []*entity.TimesheetEntry{
		{UserID: "u1", UserDisplayName: "Juan", IsHoliday: true, DurationMinutes: 480, NightMinutes: 60, HolidayMinutes: 480},
		{UserID: "u1", UserDisplayName: "Juan", IsHoliday: false, DurationMinutes: 480, NightMinutes: 0},
	}
	rows := timesheet.Summarize(slices.Values(entries))
	require.Len(t, rows, 1)
	assert.Equal(t, 480, rows[0].NormalMinutes)
	assert.Equal(t, 480, rows[0].HolidayMinutes)
	assert.Equal(t, 60, rows[0].NightMinutes)
	assert.Equal(t, 1020, rows[0].Total(false))
	assert.Equal(t, 60, rows[0].Total(true), "en la vista nocturna el total son los nocturnos")
}

func TestSummarize_OrdenPorNombre(t *testing.T) {
	entries := []*entity.TimesheetEntry{
		{UserID: "u3", UserDisplayName: "Zoe", DurationMinutes: 60},
		{UserID: "u2", Username: "ángel", DurationMinutes: 60},
		{UserID: "u1", UserDisplayName: "beatriz", DurationMinutes: 60},
		{UserID: "u2", Username: "ángel", DurationMinutes: 30, NightMinutes: 30},
	}
	rows := timesheet.Summarize(slices.Values(entries))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ángel", "beatriz", "Zoe"}, []string{rows[0].DisplayName, rows[1].DisplayName, rows[2].DisplayName})
	assert.Equal(t, 60, rows[0].NormalMinutes)
	assert.Equal(t, 30, rows[0].NightMinutes)
}

func TestSummarize_Vacio(t *testing.T) {
	assert.Empty(t, timesheet.Summarize(slices.Values([]*entity.TimesheetEntry(nil))))
}

func TestTotalsYHoras(t *testing.T) {
	total := timesheet.Totals([]timesheet.SummaryRow{
		{NormalMinutes: 480, HolidayMinutes: 0, NightMinutes: 30},
		{NormalMinutes: 60, HolidayMinutes: 480, NightMinutes: 0},
	})
	assert.Equal(t, 540, total.NormalMinutes)
	assert.Equal(t, 480, total.HolidayMinutes)
	assert.Equal(t, 30, total.NightMinutes)

	assert.True(t, decimal.RequireFromString("8.5").Equal(timesheet.Hours(510)))
	assert.True(t, decimal.RequireFromString("0.33").Equal(timesheet.Hours(20)))
}
