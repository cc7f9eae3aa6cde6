package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

var _ repository.HourClientRepository = (*HourClientRepo)(nil)

// HourClientRepo catálogo de clientes de horas sobre PostgreSQL.
type HourClientRepo struct {
	db Querier
}

// NewHourClientRepository construye el adaptador del catálogo.
func NewHourClientRepository(db Querier) *HourClientRepo {
	return &HourClientRepo{db: db}
}

// List todos los clientes guardados, incluidos los deshabilitados.
func (r *HourClientRepo) List(ctx context.Context) ([]*entity.HourClient, error) {
	rows, err := r.db.Query(ctx, `SELECT name, disabled, updated_at FROM hour_clients ORDER BY name`)
	if err != nil {
		return nil, classify(err, "list hour clients")
	}
	defer rows.Close()
	out := make([]*entity.HourClient, 0)
	for rows.Next() {
		var c entity.HourClient
		if err := rows.Scan(&c.Name, &c.Disabled, &c.UpdatedAt); err != nil {
			return nil, classify(err, "scan hour client")
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list hour clients")
	}
	return out, nil
}

// GetByName obtiene un cliente; nil, nil si no existe.
func (r *HourClientRepo) GetByName(ctx context.Context, name string) (*entity.HourClient, error) {
	var c entity.HourClient
	err := r.db.QueryRow(ctx, `SELECT name, disabled, updated_at FROM hour_clients WHERE name = $1`, name).
		Scan(&c.Name, &c.Disabled, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get hour client")
	}
	return &c, nil
}

// Upsert crea o actualiza el estado de un cliente.
func (r *HourClientRepo) Upsert(ctx context.Context, c *entity.HourClient) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO hour_clients (name, disabled, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET disabled = EXCLUDED.disabled, updated_at = EXCLUDED.updated_at`,
		c.Name, c.Disabled, c.UpdatedAt)
	return classify(err, "upsert hour client")
}
