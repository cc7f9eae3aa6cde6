package repository

import (
	"context"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// HourClientRepository catálogo de clientes para la carga de horas.
type HourClientRepository interface {
	List(ctx context.Context) ([]*entity.HourClient, error)
	// GetByName devuelve nil, nil si no existe.
	GetByName(ctx context.Context, name string) (*entity.HourClient, error)
	Upsert(ctx context.Context, client *entity.HourClient) error
}
