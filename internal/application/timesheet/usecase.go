// Package timesheet orquesta el motor de horas: composición de registros, autoridad
// de edición, consultas con filtros, resúmenes y auditoría.
package timesheet

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/horas-api/internal/application/audit"
	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// Limits límites de lectura por punto de entrada.
type Limits struct {
	ListDefault    int
	ListMax        int
	Mine           int
	SummaryDefault int
	SummaryMax     int
}

// DefaultLimits límites usados cuando la configuración no los informa.
func DefaultLimits() Limits {
	return Limits{ListDefault: 500, ListMax: 1000, Mine: 200, SummaryDefault: 1000, SummaryMax: 2000}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	return Limits{
		ListDefault:    cmp.Or(l.ListDefault, d.ListDefault),
		ListMax:        cmp.Or(l.ListMax, d.ListMax),
		Mine:           cmp.Or(l.Mine, d.Mine),
		SummaryDefault: cmp.Or(l.SummaryDefault, d.SummaryDefault),
		SummaryMax:     cmp.Or(l.SummaryMax, d.SummaryMax),
	}
}

// Config dependencias opcionales del caso de uso.
type Config struct {
	Policy       access.EditPolicy
	Limits       Limits
	StoreTimeout time.Duration // 0 = sin timeout propio
	Reports      SummaryReportGenerator
	Logger       *logger.Logger
	Now          func() time.Time
}

// UseCase casos de uso de registros de horas.
type UseCase struct {
	repo    repository.TimesheetRepository
	users   repository.UserRepository
	audit   *audit.Emitter
	policy  access.EditPolicy
	limits  Limits
	timeout time.Duration
	reports SummaryReportGenerator
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.TimesheetRepository, users repository.UserRepository, auditor *audit.Emitter, cfg Config) *UseCase {
	uc := &UseCase{
		repo:    repo,
		users:   users,
		audit:   auditor,
		policy:  cfg.Policy,
		limits:  cfg.Limits.withDefaults(),
		timeout: cfg.StoreTimeout,
		reports: cfg.Reports,
		log:     cfg.Logger,
		now:     cfg.Now,
	}
	if uc.policy.Window() <= 0 {
		uc.policy = access.NewEditPolicy(0)
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Component("timesheets")
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Policy política de edición vigente.
func (uc *UseCase) Policy() access.EditPolicy { return uc.policy }

// Create carga un turno. Un operario siempre carga a su nombre; un gestor puede
// indicar user_id para cargar por otro usuario.
func (uc *UseCase) Create(ctx context.Context, actor access.Principal, in dto.TimesheetInput) (*dto.TimesheetResponse, error) {
	if err := requireAny(actor, access.CapSubmit); err != nil {
		return nil, err
	}
	if isBlank(in.Date) || isBlank(in.StartTime) || isBlank(in.EndTime) {
		return nil, fmt.Errorf("%w: date, start_time y end_time son obligatorios", domain.ErrInvalidInput)
	}
	sctx, cancel := uc.storeContext(ctx)
	defer cancel()

	now := uc.now()
	ownerID := access.OwnerForCreate(actor, trimmed(in.UserID))
	owner, err := uc.resolveOwner(sctx, ownerID, actor, nil)
	if err != nil {
		return nil, err
	}
	entry, err := Compose(nil, toInput(in), owner, actor, now)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = now
	entry.CreatedBy = actor.ID
	entry.CreatedByName = actor.Name()

	if err := uc.repo.Create(sctx, entry); err != nil {
		return nil, storeError(err)
	}
	uc.audit.Emit(ctx, entity.MovementEntityTimesheets, entry.ID, entity.MovementTypeCreate, actorRef(actor), PayloadFor(entry))
	uc.log.Debug().Str("timesheet_id", entry.ID).Str("user_id", entry.UserID).Msg("registro de horas creado")

	resp := toTimesheetResponse(entry, actor, uc.policy, now)
	return &resp, nil
}

// Update edita un turno existente: lectura, autorización, composición sobre el
// registro anterior, escritura y auditoría. Última escritura gana.
func (uc *UseCase) Update(ctx context.Context, actor access.Principal, id string, in dto.TimesheetInput) (*dto.TimesheetResponse, error) {
	if err := requireAny(actor, access.CapSubmit, access.CapManage); err != nil {
		return nil, err
	}
	sctx, cancel := uc.storeContext(ctx)
	defer cancel()

	existing, err := uc.getExisting(sctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.policy.Authorize(actor, existing, now); err != nil {
		return nil, err
	}

	targetID := existing.UserID
	if requested := trimmed(in.UserID); requested != "" && actor.IsManager() {
		targetID = requested
	}
	previousOwner := &Owner{UserID: existing.UserID, Username: existing.Username, DisplayName: existing.UserDisplayName}
	owner, err := uc.resolveOwner(sctx, targetID, actor, previousOwner)
	if err != nil {
		return nil, err
	}
	next, err := Compose(existing, toInput(in), owner, actor, now)
	if err != nil {
		return nil, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if next.CreatedAt.IsZero() {
		// conserva la ventana que ya regía sobre el registro legado
		if start, ok := access.WindowStart(existing); ok {
			next.CreatedAt = start
		} else {
			next.CreatedAt = now
		}
	}
	next.CreatedBy = cmp.Or(existing.CreatedBy, owner.UserID)
	next.CreatedByName = cmp.Or(existing.CreatedByName, owner.DisplayName)

	if err := uc.repo.Update(sctx, next); err != nil {
		return nil, storeError(err)
	}
	uc.audit.Emit(ctx, entity.MovementEntityTimesheets, next.ID, entity.MovementTypeUpdate, actorRef(actor), PayloadFor(next))

	resp := toTimesheetResponse(next, actor, uc.policy, now)
	return &resp, nil
}

// Delete borra definitivamente un turno, con la misma autoridad que la edición.
func (uc *UseCase) Delete(ctx context.Context, actor access.Principal, id string) error {
	if err := requireAny(actor, access.CapSubmit, access.CapManage); err != nil {
		return err
	}
	sctx, cancel := uc.storeContext(ctx)
	defer cancel()

	existing, err := uc.getExisting(sctx, id)
	if err != nil {
		return err
	}
	if err := uc.policy.Authorize(actor, existing, uc.now()); err != nil {
		return err
	}
	if err := uc.repo.Delete(sctx, existing.ID); err != nil {
		return storeError(err)
	}
	uc.audit.Emit(ctx, entity.MovementEntityTimesheets, existing.ID, entity.MovementTypeDelete, actorRef(actor), PayloadFor(existing))
	return nil
}

// List listado general con filtros; orden descendente por defecto.
func (uc *UseCase) List(ctx context.Context, actor access.Principal, req dto.TimesheetQueryRequest) (*dto.TimesheetListResponse, error) {
	if err := requireAny(actor, access.CapRead, access.CapViewAll); err != nil {
		return nil, err
	}
	scope := Scope{
		UserID: strings.TrimSpace(req.UserID),
		Date:   strings.TrimSpace(req.Date),
		From:   strings.TrimSpace(req.From),
		To:     strings.TrimSpace(req.To),
		Limit:  ClampLimit(req.Limit, uc.limits.ListDefault, uc.limits.ListMax),
		Order:  NormalizeOrder(req.Order, repository.OrderDesc),
	}
	return uc.list(ctx, actor, scope, criteriaFrom(req))
}

// ListMine registros propios del actor, en orden ascendente.
func (uc *UseCase) ListMine(ctx context.Context, actor access.Principal, req dto.TimesheetQueryRequest) (*dto.TimesheetListResponse, error) {
	if err := requireAny(actor, access.CapSubmit, access.CapRead); err != nil {
		return nil, err
	}
	scope := Scope{
		UserID: actor.ID,
		Date:   strings.TrimSpace(req.Date),
		From:   strings.TrimSpace(req.From),
		To:     strings.TrimSpace(req.To),
		Limit:  ClampLimit(req.Limit, uc.limits.Mine, uc.limits.Mine),
		Order:  NormalizeOrder(req.Order, repository.OrderAsc),
	}
	return uc.list(ctx, actor, scope, criteriaFrom(req))
}

func (uc *UseCase) list(ctx context.Context, actor access.Principal, scope Scope, criteria Criteria) (*dto.TimesheetListResponse, error) {
	sctx, cancel := uc.storeContext(ctx)
	defer cancel()
	entries, err := Fetch(sctx, uc.repo, scope)
	if err != nil {
		return nil, storeError(err)
	}
	now := uc.now()
	items := make([]dto.TimesheetResponse, 0, len(entries))
	for e := range ApplyFilters(entries, criteria) {
		items = append(items, toTimesheetResponse(e, actor, uc.policy, now))
	}
	return &dto.TimesheetListResponse{Items: items, Total: len(items)}, nil
}

// Summary resumen por usuario del período, con horas decimales.
func (uc *UseCase) Summary(ctx context.Context, actor access.Principal, req dto.TimesheetQueryRequest) (*dto.TimesheetSummaryResponse, error) {
	if err := requireAny(actor, access.CapRead, access.CapViewAll); err != nil {
		return nil, err
	}
	scope := Scope{
		UserID: strings.TrimSpace(req.UserID),
		Date:   strings.TrimSpace(req.Date),
		From:   strings.TrimSpace(req.From),
		To:     strings.TrimSpace(req.To),
		Limit:  ClampLimit(req.Limit, uc.limits.SummaryDefault, uc.limits.SummaryMax),
		Order:  repository.OrderAsc,
	}
	sctx, cancel := uc.storeContext(ctx)
	defer cancel()
	entries, err := Fetch(sctx, uc.repo, scope)
	if err != nil {
		return nil, storeError(err)
	}

	criteria := criteriaFrom(req)
	filtered := ApplyFilters(entries, criteria)
	rows := Summarize(filtered)
	count := 0
	for range filtered {
		count++
	}

	out := &dto.TimesheetSummaryResponse{
		Date:      scope.Date,
		NightOnly: criteria.NightOnly,
		Rows:      make([]dto.TimesheetSummaryRow, 0, len(rows)),
		Entries:   count,
	}
	if scope.Date == "" {
		out.From, out.To = scope.From, scope.To
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, toSummaryRow(r, criteria.NightOnly))
	}
	totals := toSummaryRow(Totals(rows), criteria.NightOnly)
	totals.DisplayName = "Total"
	out.Totals = totals
	return out, nil
}

// SummaryReport mismo resumen que Summary, renderizado como PDF.
func (uc *UseCase) SummaryReport(ctx context.Context, actor access.Principal, req dto.TimesheetQueryRequest) ([]byte, error) {
	if uc.reports == nil {
		return nil, errors.New("generador de reportes no configurado")
	}
	summary, err := uc.Summary(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateSummaryPDF(ctx, summary, actor.Name(), uc.now())
}

func (uc *UseCase) getExisting(ctx context.Context, id string) (*entity.TimesheetEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return existing, nil
}

// resolveOwner identidad del dueño. Si el usuario ya no existe y es el dueño
// previo del registro, se conserva la identidad guardada.
func (uc *UseCase) resolveOwner(ctx context.Context, userID string, actor access.Principal, previous *Owner) (Owner, error) {
	if userID == actor.ID {
		return ownerFromIdentity(actor.ID, actor.Username, actor.DisplayName), nil
	}
	if uc.users != nil {
		u, err := uc.users.GetByID(ctx, userID)
		if err != nil {
			return Owner{}, storeError(err)
		}
		if u != nil {
			return ownerFromIdentity(u.ID, u.Username, u.DisplayName), nil
		}
	}
	if previous != nil && previous.UserID == userID {
		return ownerFromIdentity(previous.UserID, previous.Username, previous.DisplayName), nil
	}
	return Owner{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
}

func ownerFromIdentity(id, username, displayName string) Owner {
	username = cmp.Or(strings.TrimSpace(username), id)
	return Owner{
		UserID:      id,
		Username:    username,
		DisplayName: cmp.Or(strings.TrimSpace(displayName), username, "Usuario"),
	}
}

func (uc *UseCase) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// storeError expone los cortes por timeout como falla transitoria del store.
func storeError(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

func requireAny(actor access.Principal, caps ...access.Capability) error {
	if actor.IsAdmin() || actor.Caps.Any(caps...) {
		return nil
	}
	return domain.ErrForbidden
}

func actorRef(actor access.Principal) string {
	return cmp.Or(actor.Username, actor.ID)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
