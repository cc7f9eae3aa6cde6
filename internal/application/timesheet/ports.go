package timesheet

import (
	"context"
	"time"

	"github.com/jhoicas/horas-api/internal/application/dto"
)

// SummaryReportGenerator renderiza un resumen de horas como documento (PDF).
type SummaryReportGenerator interface {
	GenerateSummaryPDF(ctx context.Context, summary *dto.TimesheetSummaryResponse, generatedBy string, generatedAt time.Time) ([]byte, error)
}
