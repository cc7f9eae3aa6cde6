package repository

import (
	"context"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// MovementRepository log de auditoría compartido con el resto del sistema.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
}
