package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de auditoría sobre PostgreSQL (payload en JSONB).
type MovementRepo struct {
	db Querier
}

// NewMovementRepository construye el adaptador del log de movimientos.
func NewMovementRepository(db Querier) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	var payload []byte
	if m.Payload != nil {
		raw, err := json.Marshal(m.Payload)
		if err != nil {
			return fmt.Errorf("serializar payload: %w", err)
		}
		payload = raw
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO movements (id, entity, entity_id, type, by_user, payload, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Entity, m.EntityID, m.Type, m.By, payload, m.At)
	return classify(err, "insert movement")
}
