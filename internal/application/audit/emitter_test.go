package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/horas-api/internal/application/audit"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/infrastructure/memory"
	"github.com/jhoicas/horas-api/pkg/logger"
)

func TestEmit_RegistraMovimiento(t *testing.T) {
	store := memory.New()
	e := audit.NewEmitter(store.MovementLog(), nil, 0)

	e.Emit(context.Background(), entity.MovementEntityTimesheets, "t1", entity.MovementTypeCreate, "", map[string]int{"duration_minutes": 60})
	e.Flush()

	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.NotEmpty(t, movs[0].ID)
	assert.Equal(t, "t1", movs[0].EntityID)
	assert.Equal(t, "system", movs[0].By, "sin actor se registra como system")
	assert.False(t, movs[0].At.IsZero())
}

func TestEmit_NoHeredaLaCancelacionDelRequest(t *testing.T) {
	store := memory.New()
	e := audit.NewEmitter(store.MovementLog(), nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Emit(ctx, entity.MovementEntityTimesheets, "t1", entity.MovementTypeDelete, "jperez", nil)
	e.Flush()
	assert.Len(t, store.Movements(), 1)
}

func TestEmit_FallaSeLoggeaYNoSePropaga(t *testing.T) {
	store := memory.New()
	store.Fail(memory.OpMovementCreate, errors.New("sin conexión"))
	var buf bytes.Buffer
	e := audit.NewEmitter(store.MovementLog(), logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf}), time.Second)

	e.Emit(context.Background(), entity.MovementEntityHourClients, "Conci", entity.MovementTypeUpdate, "admin", nil)
	e.Flush()

	assert.Empty(t, store.Movements())
	assert.Contains(t, buf.String(), "sin conexión")
	assert.Contains(t, buf.String(), `"entity_id":"Conci"`)
}

func TestEmit_SinRepositorioNoHaceNada(t *testing.T) {
	var nilEmitter *audit.Emitter
	assert.NotPanics(t, func() {
		nilEmitter.Emit(context.Background(), "x", "1", "create", "a", nil)
		nilEmitter.Flush()
		nilEmitter.Close()
		audit.NewEmitter(nil, nil, 0).Emit(context.Background(), "x", "1", "create", "a", nil)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Escritura en segundo plano
// ──────────────────────────────────────────────────────────────────────────────

// stalledMovements no responde hasta que vence el contexto de escritura.
type stalledMovements struct{}

func (stalledMovements) Create(ctx context.Context, _ *entity.Movement) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestEmit_LogColgadoNoDemoraLaOperacion(t *testing.T) {
	var buf bytes.Buffer
	e := audit.NewEmitter(stalledMovements{}, logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf}), 200*time.Millisecond)

	start := time.Now()
	e.Emit(context.Background(), entity.MovementEntityTimesheets, "t1", entity.MovementTypeCreate, "jperez", nil)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Emit no espera la escritura")

	e.Flush()
	assert.Contains(t, buf.String(), "deadline exceeded")
	assert.Contains(t, buf.String(), `"entity_id":"t1"`)
}

func TestEmit_ConservaElOrdenDeLlegada(t *testing.T) {
	store := memory.New()
	e := audit.NewEmitter(store.MovementLog(), nil, time.Second)

	for _, typ := range []string{entity.MovementTypeCreate, entity.MovementTypeUpdate, entity.MovementTypeDelete} {
		e.Emit(context.Background(), entity.MovementEntityTimesheets, "t1", typ, "jperez", nil)
	}
	e.Close()

	movs := store.Movements()
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementTypeCreate, movs[0].Type)
	assert.Equal(t, entity.MovementTypeUpdate, movs[1].Type)
	assert.Equal(t, entity.MovementTypeDelete, movs[2].Type)
}

func TestClose_DescartaLoQueLlegaDespues(t *testing.T) {
	store := memory.New()
	var buf bytes.Buffer
	e := audit.NewEmitter(store.MovementLog(), logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf}), time.Second)

	e.Emit(context.Background(), entity.MovementEntityTimesheets, "t1", entity.MovementTypeCreate, "jperez", nil)
	e.Close()
	e.Close()
	e.Emit(context.Background(), entity.MovementEntityTimesheets, "t2", entity.MovementTypeCreate, "jperez", nil)

	movs := store.Movements()
	require.Len(t, movs, 1, "lo pendiente se escribe antes de cerrar")
	assert.Equal(t, "t1", movs[0].EntityID)
	assert.Contains(t, buf.String(), "emisor cerrado")
}
