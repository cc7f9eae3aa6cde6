// Package audit registra movimientos en el log compartido de auditoría.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// DefaultTimeout tiempo máximo para escribir un movimiento.
const DefaultTimeout = 3 * time.Second

// QueueSize movimientos pendientes admitidos antes de descartar.
const QueueSize = 256

type job struct {
	ctx context.Context
	m   *entity.Movement
}

// Emitter escribe movimientos de auditoría en segundo plano y en orden de llegada.
// Es best-effort: una falla se registra en el log y nunca llega a la operación que
// la originó, que tampoco espera la escritura.
type Emitter struct {
	repo    repository.MovementRepository
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time

	queue   chan job
	start   sync.Once
	pending sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewEmitter construye el emisor. repo nil deshabilita la auditoría.
func NewEmitter(repo repository.MovementRepository, log *logger.Logger, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{
		repo:    repo,
		log:     log.Component("audit"),
		timeout: timeout,
		now:     time.Now,
		queue:   make(chan job, QueueSize),
	}
}

// Emit encola un movimiento y vuelve enseguida. by es el username de quien actuó.
// La escritura no hereda la cancelación del request: solo la corta el timeout propio.
func (e *Emitter) Emit(ctx context.Context, entityName, entityID, movementType, by string, payload any) {
	if e == nil || e.repo == nil {
		return
	}
	if by == "" {
		by = "system"
	}
	m := &entity.Movement{
		ID:       uuid.New().String(),
		Entity:   entityName,
		EntityID: entityID,
		Type:     movementType,
		By:       by,
		Payload:  payload,
		At:       e.now().UTC(),
	}
	e.start.Do(func() { go e.run() })

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.dropped(m, "emisor cerrado")
		return
	}
	e.pending.Add(1)
	select {
	case e.queue <- job{ctx: context.WithoutCancel(ctx), m: m}:
	default:
		e.pending.Done()
		e.dropped(m, "cola de auditoría llena")
	}
}

// Flush espera a que se escriban (o fallen) los movimientos encolados.
func (e *Emitter) Flush() {
	if e == nil {
		return
	}
	e.pending.Wait()
}

// Close deja de aceptar movimientos y espera los pendientes. Se llama al apagar el servidor.
func (e *Emitter) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()
	e.pending.Wait()
}

func (e *Emitter) run() {
	for j := range e.queue {
		e.write(j)
	}
}

func (e *Emitter) write(j job) {
	defer e.pending.Done()
	wctx, cancel := context.WithTimeout(j.ctx, e.timeout)
	defer cancel()
	if err := e.repo.Create(wctx, j.m); err != nil {
		e.log.Warn().Err(err).
			Str("entity", j.m.Entity).
			Str("entity_id", j.m.EntityID).
			Str("type", j.m.Type).
			Msg("no se pudo registrar el movimiento de auditoría")
	}
}

func (e *Emitter) dropped(m *entity.Movement, reason string) {
	e.log.Warn().
		Str("entity", m.Entity).
		Str("entity_id", m.EntityID).
		Str("type", m.Type).
		Msg("movimiento de auditoría descartado: " + reason)
}
