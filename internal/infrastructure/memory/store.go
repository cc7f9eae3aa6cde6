// Package memory implementa los puertos de persistencia en memoria.
// Sirve como driver de desarrollo (STORE_DRIVER=memory) y como store de los tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

// Op identifica una operación del store para inyectar fallas en tests.
type Op string

// Operaciones con falla inyectable.
const (
	OpTimesheetCreate Op = "timesheets.create"
	OpTimesheetGet    Op = "timesheets.get"
	OpTimesheetUpdate Op = "timesheets.update"
	OpTimesheetDelete Op = "timesheets.delete"
	OpTimesheetList   Op = "timesheets.list"
	OpUserGet         Op = "users.get"
	OpRoleList        Op = "roles.list"
	OpMovementCreate  Op = "movements.create"
	OpHourClientList  Op = "hourclients.list"
	OpHourClientGet   Op = "hourclients.get"
	OpHourClientSave  Op = "hourclients.upsert"
)

// Store estado en memoria protegido por un único mutex.
type Store struct {
	mu         sync.RWMutex
	timesheets map[string]*entity.TimesheetEntry
	users      map[string]*entity.User
	roles      map[string]*entity.Role
	clients    map[string]*entity.HourClient
	movements  []*entity.Movement
	failures   map[Op]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		timesheets: map[string]*entity.TimesheetEntry{},
		users:      map[string]*entity.User{},
		roles:      map[string]*entity.Role{},
		clients:    map[string]*entity.HourClient{},
		failures:   map[Op]error{},
	}
}

// Fail hace que op devuelva err hasta que se llame con err nil.
func (s *Store) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[op]
}

// PutUser agrega o reemplaza un usuario.
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	c.Roles = slices.Clone(u.Roles)
	s.users[u.ID] = &c
}

// PutTimesheet guarda un registro tal cual, conservando ID y marcas de creación.
func (s *Store) PutTimesheet(e *entity.TimesheetEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	s.timesheets[e.ID] = e.Clone()
}

// Movements copia de los movimientos registrados, en orden de escritura.
func (s *Store) Movements() []entity.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// Timesheets puerto de registros de horas.
func (s *Store) Timesheets() repository.TimesheetRepository { return &timesheetRepo{s} }

// Users puerto de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Roles puerto de roles.
func (s *Store) Roles() repository.RoleRepository { return &roleRepo{s} }

// MovementLog puerto de auditoría.
func (s *Store) MovementLog() repository.MovementRepository { return &movementRepo{s} }

// HourClients puerto del catálogo de clientes.
func (s *Store) HourClients() repository.HourClientRepository { return &hourClientRepo{s} }

// ──────────────────────────────────────────────────────────────────────────────
// Registros de horas
// ──────────────────────────────────────────────────────────────────────────────

type timesheetRepo struct{ s *Store }

func (r *timesheetRepo) Create(ctx context.Context, e *entity.TimesheetEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(ctx, OpTimesheetCreate); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if _, ok := r.s.timesheets[e.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.timesheets[e.ID] = e.Clone()
	return nil
}

func (r *timesheetRepo) GetByID(ctx context.Context, id string) (*entity.TimesheetEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpTimesheetGet); err != nil {
		return nil, err
	}
	return r.s.timesheets[id].Clone(), nil
}

func (r *timesheetRepo) Update(ctx context.Context, e *entity.TimesheetEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(ctx, OpTimesheetUpdate); err != nil {
		return err
	}
	if _, ok := r.s.timesheets[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.timesheets[e.ID] = e.Clone()
	return nil
}

func (r *timesheetRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(ctx, OpTimesheetDelete); err != nil {
		return err
	}
	if _, ok := r.s.timesheets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.timesheets, id)
	return nil
}

func (r *timesheetRepo) List(ctx context.Context, q repository.TimesheetQuery) ([]*entity.TimesheetEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpTimesheetList); err != nil {
		return nil, err
	}
	out := make([]*entity.TimesheetEntry, 0)
	for _, e := range r.s.timesheets {
		if matchesQuery(e, q) {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *entity.TimesheetEntry) int {
		c := cmp.Or(
			strings.Compare(a.Date, b.Date),
			cmp.Compare(a.StartMinutes, b.StartMinutes),
			strings.Compare(a.ID, b.ID),
		)
		if q.Order == repository.OrderDesc {
			return -c
		}
		return c
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchesQuery(e *entity.TimesheetEntry, q repository.TimesheetQuery) bool {
	if q.UserID != "" && e.UserID != q.UserID {
		return false
	}
	if q.Date != "" {
		return e.Date == q.Date
	}
	if q.From != "" && e.Date < q.From {
		return false
	}
	if q.To != "" && e.Date > q.To {
		return false
	}
	return true
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y roles
// ──────────────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpUserGet); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c, nil
}

type roleRepo struct{ s *Store }

func (r *roleRepo) ListByNames(ctx context.Context, names []string) ([]*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpRoleList); err != nil {
		return nil, err
	}
	out := make([]*entity.Role, 0, len(names))
	for _, n := range names {
		if role, ok := r.s.roles[n]; ok {
			out = append(out, cloneRole(role))
		}
	}
	return out, nil
}

func (r *roleRepo) Upsert(ctx context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.roles[role.Name] = cloneRole(role)
	return nil
}

func cloneRole(r *entity.Role) *entity.Role {
	c := &entity.Role{Name: r.Name, Permissions: make(map[string]map[string]bool, len(r.Permissions))}
	for group, perms := range r.Permissions {
		inner := make(map[string]bool, len(perms))
		for k, v := range perms {
			inner[k] = v
		}
		c.Permissions[group] = inner
	}
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría y catálogo
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(ctx context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(ctx, OpMovementCreate); err != nil {
		return err
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

type hourClientRepo struct{ s *Store }

func (r *hourClientRepo) List(ctx context.Context) ([]*entity.HourClient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpHourClientList); err != nil {
		return nil, err
	}
	out := make([]*entity.HourClient, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		cp := *c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.HourClient) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *hourClientRepo) GetByName(ctx context.Context, name string) (*entity.HourClient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.failure(ctx, OpHourClientGet); err != nil {
		return nil, err
	}
	c, ok := r.s.clients[name]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *hourClientRepo) Upsert(ctx context.Context, c *entity.HourClient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(ctx, OpHourClientSave); err != nil {
		return err
	}
	cp := *c
	r.s.clients[c.Name] = &cp
	return nil
}
