package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/horas-api/internal/application/dto"
)

func TestGenerateSummaryPDF(t *testing.T) {
	g := NewSummaryPDFGenerator("Taller Central")
	summary := &dto.TimesheetSummaryResponse{
		From: "2026-03-01",
		To:   "2026-03-31",
		Rows: []dto.TimesheetSummaryRow{
			{DisplayName: "Juan Pérez", NormalMinutes: 480, NightMinutes: 480, TotalMinutes: 960},
			{Username: "mgomez", HolidayMinutes: 480, TotalMinutes: 480},
		},
		Totals:  dto.TimesheetSummaryRow{NormalMinutes: 480, HolidayMinutes: 480, NightMinutes: 480, TotalMinutes: 1440},
		Entries: 3,
	}

	out, err := g.GenerateSummaryPDF(context.Background(), summary, "admin", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPeriodYHoras(t *testing.T) {
	assert.Equal(t, "2026-03-05", period(&dto.TimesheetSummaryResponse{Date: "2026-03-05"}))
	assert.Equal(t, "2026-03-01 a 2026-03-31", period(&dto.TimesheetSummaryResponse{From: "2026-03-01", To: "2026-03-31"}))
	assert.Equal(t, "desde 2026-03-01", period(&dto.TimesheetSummaryResponse{From: "2026-03-01"}))
	assert.Equal(t, "todos los registros", period(&dto.TimesheetSummaryResponse{}))
	assert.Equal(t, "8h 30m (8.50)", hoursCell(510))
}
