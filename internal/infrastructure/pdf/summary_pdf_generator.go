// Package pdf genera el resumen de horas por usuario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Resumen de horas          │  Período + emisión     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Usuario | Normales | Feriado | Nocturnas | Total    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/worktime"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

var _ timesheet.SummaryReportGenerator = (*SummaryPDFGenerator)(nil)

// SummaryPDFGenerator implementa timesheet.SummaryReportGenerator con Maroto v2.
type SummaryPDFGenerator struct {
	company string
}

// NewSummaryPDFGenerator construye el generador; company se imprime en el encabezado.
func NewSummaryPDFGenerator(company string) *SummaryPDFGenerator {
	return &SummaryPDFGenerator{company: company}
}

// GenerateSummaryPDF genera el PDF y devuelve sus bytes.
func (g *SummaryPDFGenerator) GenerateSummaryPDF(
	_ context.Context,
	summary *dto.TimesheetSummaryResponse,
	generatedBy string,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de horas", true).
		WithAuthor(nonEmpty(g.company, "horas-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, summary, generatedBy, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(summary.NightOnly))
	for i, r := range summary.Rows {
		m.AddRows(summaryRow(r, i%2 == 1))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, s *dto.TimesheetSummaryResponse, by string, at time.Time) core.Row {
	title := "RESUMEN DE HORAS"
	if s.NightOnly {
		title = "RESUMEN DE HORAS NOCTURNAS"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Horas"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Período: "+period(s), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("%d registros", s.Entries), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Emitido %s por %s", at.Format("02/01/2006 15:04"), by), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(nightOnly bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	total := "Total"
	if nightOnly {
		total = "Total nocturnas"
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Usuario", 4, align.Left),
		h("Normales", 2, align.Right),
		h("Feriado", 2, align.Right),
		h("Nocturnas", 2, align.Right),
		h(total, 2, align.Right),
	)
}

func summaryRow(r dto.TimesheetSummaryRow, striped bool) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := row.New(7)
	if striped {
		out = out.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return out.Add(
		cell(nonEmpty(r.DisplayName, r.Username), 4, align.Left),
		cell(hoursCell(r.NormalMinutes), 2, align.Right),
		cell(hoursCell(r.HolidayMinutes), 2, align.Right),
		cell(hoursCell(r.NightMinutes), 2, align.Right),
		cell(hoursCell(r.TotalMinutes), 2, align.Right),
	)
}

func totalsRow(s *dto.TimesheetSummaryResponse) core.Row {
	bold := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Top: 1, Left: 1, Right: 1, Color: colorPrimary,
		}))
	}
	t := s.Totals
	return row.New(9).Add(
		bold("TOTAL", 4, align.Left),
		bold(hoursCell(t.NormalMinutes), 2, align.Right),
		bold(hoursCell(t.HolidayMinutes), 2, align.Right),
		bold(hoursCell(t.NightMinutes), 2, align.Right),
		bold(hoursCell(t.TotalMinutes), 2, align.Right),
	)
}

// hoursCell "8h 30m (8.50)".
func hoursCell(minutes int) string {
	return fmt.Sprintf("%s (%s)", worktime.FormatMinutes(minutes), timesheet.Hours(minutes).StringFixed(2))
}

func period(s *dto.TimesheetSummaryResponse) string {
	switch {
	case s.Date != "":
		return s.Date
	case s.From != "" && s.To != "":
		return s.From + " a " + s.To
	case s.From != "":
		return "desde " + s.From
	case s.To != "":
		return "hasta " + s.To
	}
	return "todos los registros"
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
