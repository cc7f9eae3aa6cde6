package timesheet

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

// Scope alcance de una lectura contra el store.
type Scope struct {
	UserID string
	Date   string // tiene prioridad sobre From/To
	From   string
	To     string
	Limit  int
	Order  string
}

// Validate comprueba las fechas del alcance.
func (s Scope) Validate() error {
	for _, d := range [...]struct{ name, value string }{{"date", s.Date}, {"from", s.From}, {"to", s.To}} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, d.value); err != nil {
			return fmt.Errorf("%w: %s %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, d.name, d.value)
		}
	}
	return nil
}

// ClampLimit aplica el límite por defecto y el techo de cada punto de entrada.
func ClampLimit(requested, def, ceiling int) int {
	if requested <= 0 {
		requested = def
	}
	if ceiling > 0 && requested > ceiling {
		return ceiling
	}
	return requested
}

// NormalizeOrder devuelve asc o desc; cualquier otro valor usa def.
func NormalizeOrder(order, def string) string {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case repository.OrderAsc:
		return repository.OrderAsc
	case repository.OrderDesc:
		return repository.OrderDesc
	}
	return def
}

// Fetch lee los registros del alcance y los ordena por fecha y hora de inicio.
// El orden se vuelve a aplicar en memoria para no depender del store.
func Fetch(ctx context.Context, repo repository.TimesheetRepository, scope Scope) ([]*entity.TimesheetEntry, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	q := repository.TimesheetQuery{
		UserID: scope.UserID,
		Date:   scope.Date,
		Limit:  scope.Limit,
		Order:  NormalizeOrder(scope.Order, repository.OrderDesc),
	}
	if q.Date == "" {
		q.From, q.To = scope.From, scope.To
	}
	entries, err := repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	SortEntries(entries, q.Order)
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	return entries, nil
}

// SortEntries ordena en forma estable por fecha y minutos de inicio.
func SortEntries(entries []*entity.TimesheetEntry, order string) {
	slices.SortStableFunc(entries, func(a, b *entity.TimesheetEntry) int {
		c := cmp.Or(strings.Compare(a.Date, b.Date), cmp.Compare(a.StartMinutes, b.StartMinutes))
		if order == repository.OrderDesc {
			return -c
		}
		return c
	})
}

// Criteria filtros en memoria. Los textos se comparan sin distinguir mayúsculas
// y por subcadena; los vacíos no filtran. Todos se combinan con AND.
type Criteria struct {
	Client    string
	Task      string
	WorkOrder string
	User      string // display name o username
	Q         string // contra el texto de búsqueda precalculado
	IsHoliday *bool
	NightOnly bool
}

// Matches informa si e cumple todos los criterios.
func (c Criteria) Matches(e *entity.TimesheetEntry) bool {
	return c.compile().matches(e)
}

// compiled criterios ya normalizados, para no plegar texto en cada registro.
type compiled struct {
	client, task, workOrder, user, q string
	isHoliday                        *bool
	nightOnly                        bool
}

func (c Criteria) compile() compiled {
	return compiled{
		client:    fold(c.Client),
		task:      fold(c.Task),
		workOrder: fold(c.WorkOrder),
		user:      fold(c.User),
		q:         fold(c.Q),
		isHoliday: c.IsHoliday,
		nightOnly: c.NightOnly,
	}
}

func (c compiled) matches(e *entity.TimesheetEntry) bool {
	if e == nil {
		return false
	}
	if c.nightOnly && e.NightMinutes <= 0 {
		return false
	}
	if c.isHoliday != nil && e.IsHoliday != *c.isHoliday {
		return false
	}
	if !contains(e.Client, c.client) || !contains(e.Task, c.task) || !contains(e.WorkOrder, c.workOrder) {
		return false
	}
	if c.user != "" && !contains(e.UserDisplayName, c.user) && !contains(e.Username, c.user) {
		return false
	}
	if c.q != "" {
		text := e.SearchText
		if text == "" {
			text = SearchText(e)
		}
		if !strings.Contains(text, c.q) {
			return false
		}
	}
	return true
}

func contains(field, needle string) bool {
	return needle == "" || strings.Contains(fold(field), needle)
}

// ApplyFilters devuelve una secuencia perezosa con los registros que cumplen c.
// No modifica entries y se puede recorrer varias veces.
func ApplyFilters(entries []*entity.TimesheetEntry, c Criteria) iter.Seq[*entity.TimesheetEntry] {
	cc := c.compile()
	return func(yield func(*entity.TimesheetEntry) bool) {
		for _, e := range entries {
			if cc.matches(e) && !yield(e) {
				return
			}
		}
	}
}

// ParseBool interpreta flags de query string: true, 1, yes, si y sí son verdaderos.
// Vacío devuelve nil (sin filtro).
func ParseBool(raw string) *bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1" || v == "yes" || v == "si" || v == "sí"
	return &b
}
