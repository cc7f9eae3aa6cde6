package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.RoleRepository = (*RoleRepo)(nil)
)

// UserRepo lectura de usuarios sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID obtiene un usuario por ID; nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx, `SELECT id, username, display_name, roles FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.DisplayName, &u.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get user")
	}
	return &u, nil
}

// Upsert crea o actualiza un usuario (herramientas de operación).
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, display_name, roles) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, display_name = EXCLUDED.display_name, roles = EXCLUDED.roles`,
		u.ID, u.Username, u.DisplayName, roles)
	return classify(err, "upsert user")
}

// RoleRepo documentos de rol sobre PostgreSQL.
type RoleRepo struct {
	db Querier
}

// NewRoleRepository construye el adaptador de persistencia para roles.
func NewRoleRepository(db Querier) *RoleRepo {
	return &RoleRepo{db: db}
}

// ListByNames devuelve los roles existentes entre names.
func (r *RoleRepo) ListByNames(ctx context.Context, names []string) ([]*entity.Role, error) {
	if len(names) == 0 {
		return []*entity.Role{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT name, permissions FROM roles WHERE name = ANY($1) ORDER BY name`, names)
	if err != nil {
		return nil, classify(err, "list roles")
	}
	defer rows.Close()

	out := make([]*entity.Role, 0, len(names))
	for rows.Next() {
		var (
			role entity.Role
			raw  []byte
		)
		if err := rows.Scan(&role.Name, &raw); err != nil {
			return nil, classify(err, "scan role")
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &role.Permissions); err != nil {
				return nil, fmt.Errorf("permisos del rol %s: %w", role.Name, err)
			}
		}
		out = append(out, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list roles")
	}
	return out, nil
}

// Upsert crea o reemplaza un rol.
func (r *RoleRepo) Upsert(ctx context.Context, role *entity.Role) error {
	perms := role.Permissions
	if perms == nil {
		perms = map[string]map[string]bool{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("serializar permisos: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO roles (name, permissions) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET permissions = EXCLUDED.permissions`,
		role.Name, raw)
	return classify(err, "upsert role")
}
