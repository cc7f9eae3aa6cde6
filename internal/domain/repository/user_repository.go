package repository

import (
	"context"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// UserRepository lectura de usuarios (el alta y la edición viven en el módulo de usuarios).
type UserRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RoleRepository documentos de rol con sus permisos.
type RoleRepository interface {
	// ListByNames devuelve los roles existentes; los nombres desconocidos se omiten.
	ListByNames(ctx context.Context, names []string) ([]*entity.Role, error)
	Upsert(ctx context.Context, role *entity.Role) error
}
