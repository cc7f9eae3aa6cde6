package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type migration struct {
	version int
	sql     string
}

// migrations esquema versionado; solo se agregan versiones nuevas al final.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS users (
    id           TEXT PRIMARY KEY,
    username     TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    roles        TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS roles (
    name        TEXT PRIMARY KEY,
    permissions JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS timesheets (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    username          TEXT NOT NULL DEFAULT '',
    user_display_name TEXT NOT NULL DEFAULT '',
    work_date         TEXT NOT NULL CHECK (work_date ~ '^\d{4}-\d{2}-\d{2}$'),
    start_time        TEXT NOT NULL,
    end_time          TEXT NOT NULL,
    start_minutes     INTEGER NOT NULL,
    duration_minutes  INTEGER NOT NULL CHECK (duration_minutes > 0 AND duration_minutes <= 1440),
    night_minutes     INTEGER NOT NULL DEFAULT 0 CHECK (night_minutes >= 0 AND night_minutes <= duration_minutes),
    is_holiday        BOOLEAN NOT NULL DEFAULT FALSE,
    holiday_minutes   INTEGER NOT NULL DEFAULT 0,
    client            TEXT NOT NULL DEFAULT '',
    task              TEXT NOT NULL DEFAULT '',
    work_order        TEXT NOT NULL DEFAULT '',
    search_text       TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMPTZ,
    created_by        TEXT NOT NULL DEFAULT '',
    created_by_name   TEXT NOT NULL DEFAULT '',
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_by        TEXT NOT NULL DEFAULT '',
    updated_by_name   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_timesheets_date ON timesheets (work_date, start_minutes);
CREATE INDEX IF NOT EXISTS idx_timesheets_user_date ON timesheets (user_id, work_date, start_minutes);

CREATE TABLE IF NOT EXISTS movements (
    id        TEXT PRIMARY KEY,
    entity    TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    type      TEXT NOT NULL,
    by_user   TEXT NOT NULL,
    payload   JSONB,
    at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_movements_entity ON movements (entity, entity_id, at);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS hour_clients (
    name       TEXT PRIMARY KEY,
    disabled   BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	},
}

// LatestVersion versión del esquema que deja Migrate.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate aplica las migraciones pendientes en una sola transacción y devuelve
// la versión previa y la resultante.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (from, to int, err error) {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return 0, 0, classify(err, "crear schema_version")
	}
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&from); err != nil {
		return 0, 0, classify(err, "leer versión del esquema")
	}

	to = from
	err = NewTxRunner(pool).Run(ctx, func(q Querier) error {
		for _, m := range migrations {
			if m.version <= from {
				continue
			}
			if _, err := q.Exec(ctx, m.sql); err != nil {
				return fmt.Errorf("migración %d: %w", m.version, classify(err, "exec"))
			}
			if _, err := q.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, m.version); err != nil {
				return fmt.Errorf("registrar migración %d: %w", m.version, classify(err, "exec"))
			}
			to = m.version
		}
		return nil
	})
	if err != nil {
		return from, from, err
	}
	return from, to, nil
}
