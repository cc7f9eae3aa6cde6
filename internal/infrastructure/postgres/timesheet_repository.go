package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

var _ repository.TimesheetRepository = (*TimesheetRepo)(nil)

const timesheetColumns = `id, user_id, username, user_display_name, work_date, start_time, end_time,
	start_minutes, duration_minutes, night_minutes, is_holiday, holiday_minutes,
	client, task, work_order, search_text,
	created_at, created_by, created_by_name, updated_at, updated_by, updated_by_name`

// TimesheetRepo implementación del puerto TimesheetRepository sobre PostgreSQL.
type TimesheetRepo struct {
	db Querier
}

// NewTimesheetRepository construye el adaptador de persistencia para registros de horas.
func NewTimesheetRepository(db Querier) *TimesheetRepo {
	return &TimesheetRepo{db: db}
}

// Create persiste un nuevo registro; asigna ID si viene vacío.
func (r *TimesheetRepo) Create(ctx context.Context, e *entity.TimesheetEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `INSERT INTO timesheets (` + timesheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	if _, err := r.db.Exec(ctx, query, timesheetArgs(e)...); err != nil {
		return classify(err, "insert timesheet")
	}
	return nil
}

// GetByID obtiene un registro por ID; nil, nil si no existe.
func (r *TimesheetRepo) GetByID(ctx context.Context, id string) (*entity.TimesheetEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+timesheetColumns+` FROM timesheets WHERE id = $1`, id)
	e, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get timesheet")
	}
	return e, nil
}

// Update reemplaza el registro completo.
func (r *TimesheetRepo) Update(ctx context.Context, e *entity.TimesheetEntry) error {
	query := `
		UPDATE timesheets SET
			user_id = $2, username = $3, user_display_name = $4, work_date = $5, start_time = $6, end_time = $7,
			start_minutes = $8, duration_minutes = $9, night_minutes = $10, is_holiday = $11, holiday_minutes = $12,
			client = $13, task = $14, work_order = $15, search_text = $16,
			created_at = $17, created_by = $18, created_by_name = $19,
			updated_at = $20, updated_by = $21, updated_by_name = $22
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, timesheetArgs(e)...)
	if err != nil {
		return classify(err, "update timesheet")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra definitivamente un registro.
func (r *TimesheetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timesheets WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete timesheet")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List registros del alcance, ordenados por fecha y minutos de inicio.
func (r *TimesheetRepo) List(ctx context.Context, q repository.TimesheetQuery) ([]*entity.TimesheetEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.UserID != "" {
		add("user_id = $%d", q.UserID)
	}
	if q.Date != "" {
		add("work_date = $%d", q.Date)
	} else {
		if q.From != "" {
			add("work_date >= $%d", q.From)
		}
		if q.To != "" {
			add("work_date <= $%d", q.To)
		}
	}

	dir := "ASC"
	if q.Order == repository.OrderDesc {
		dir = "DESC"
	}
	var sb strings.Builder
	sb.WriteString(`SELECT ` + timesheetColumns + ` FROM timesheets`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY work_date %s, start_minutes %s, id %s", dir, dir, dir)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, classify(err, "list timesheets")
	}
	defer rows.Close()

	out := make([]*entity.TimesheetEntry, 0)
	for rows.Next() {
		e, err := scanTimesheet(rows)
		if err != nil {
			return nil, classify(err, "scan timesheet")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list timesheets")
	}
	return out, nil
}

func timesheetArgs(e *entity.TimesheetEntry) []any {
	var createdAt *time.Time
	if !e.CreatedAt.IsZero() {
		t := e.CreatedAt
		createdAt = &t
	}
	return []any{
		e.ID, e.UserID, e.Username, e.UserDisplayName, e.Date, e.StartTime, e.EndTime,
		e.StartMinutes, e.DurationMinutes, e.NightMinutes, e.IsHoliday, e.HolidayMinutes,
		e.Client, e.Task, e.WorkOrder, e.SearchText,
		createdAt, e.CreatedBy, e.CreatedByName, e.UpdatedAt, e.UpdatedBy, e.UpdatedByName,
	}
}

func scanTimesheet(row pgx.Row) (*entity.TimesheetEntry, error) {
	var (
		e         entity.TimesheetEntry
		createdAt *time.Time
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.Username, &e.UserDisplayName, &e.Date, &e.StartTime, &e.EndTime,
		&e.StartMinutes, &e.DurationMinutes, &e.NightMinutes, &e.IsHoliday, &e.HolidayMinutes,
		&e.Client, &e.Task, &e.WorkOrder, &e.SearchText,
		&createdAt, &e.CreatedBy, &e.CreatedByName, &e.UpdatedAt, &e.UpdatedBy, &e.UpdatedByName,
	)
	if err != nil {
		return nil, err
	}
	if createdAt != nil {
		e.CreatedAt = createdAt.UTC()
	}
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}
