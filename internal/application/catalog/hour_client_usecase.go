// Package catalog administra el catálogo de clientes ofrecidos al cargar horas.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/horas-api/internal/application/audit"
	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
)

// DefaultClients clientes presentes aunque el catálogo esté vacío.
var DefaultClients = []string{"Conci", "Centro Motor", "Sew", "Gamisol", "Melchior", "Las Piedras", "Echaniz"}

const maxNameLength = 200

// HourClientUseCase alta, baja y listado del catálogo.
type HourClientUseCase struct {
	repo    repository.HourClientRepository
	audit   *audit.Emitter
	timeout time.Duration
	now     func() time.Time
}

// DefaultStoreTimeout tiempo máximo de cada operación del catálogo contra el store.
const DefaultStoreTimeout = 10 * time.Second

// NewHourClientUseCase construye el caso de uso.
func NewHourClientUseCase(repo repository.HourClientRepository, auditor *audit.Emitter) *HourClientUseCase {
	return &HourClientUseCase{repo: repo, audit: auditor, timeout: DefaultStoreTimeout, now: time.Now}
}

// WithStoreTimeout fija el tiempo máximo por operación; un valor no positivo deja el de por defecto.
func (uc *HourClientUseCase) WithStoreTimeout(d time.Duration) *HourClientUseCase {
	if d > 0 {
		uc.timeout = d
	}
	return uc
}

// List clientes activos: los por defecto más los guardados, sin los deshabilitados.
func (uc *HourClientUseCase) List(ctx context.Context) ([]string, error) {
	sctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	stored, err := uc.repo.List(sctx)
	if err != nil {
		return nil, storeError(err)
	}
	active := map[string]bool{}
	for _, name := range DefaultClients {
		active[name] = true
	}
	for _, c := range stored {
		active[c.Name] = !c.Disabled
	}
	out := make([]string, 0, len(active))
	for name, ok := range active {
		if ok {
			out = append(out, name)
		}
	}
	col := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortFunc(out, col.CompareString)
	return out, nil
}

// Add agrega un cliente o reactiva uno deshabilitado. created es false en la reactivación.
func (uc *HourClientUseCase) Add(ctx context.Context, actor access.Principal, name string) (created bool, err error) {
	if err := requireCatalog(actor); err != nil {
		return false, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return false, err
	}
	sctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	existing, err := uc.repo.GetByName(sctx, name)
	if err != nil {
		return false, storeError(err)
	}
	switch {
	case existing != nil && !existing.Disabled:
		return false, fmt.Errorf("%w: el cliente %q ya existe", domain.ErrDuplicate, name)
	case existing == nil && slices.Contains(DefaultClients, name):
		return false, fmt.Errorf("%w: el cliente %q ya existe", domain.ErrDuplicate, name)
	}

	client := &entity.HourClient{Name: name, UpdatedAt: uc.now().UTC()}
	if err := uc.repo.Upsert(sctx, client); err != nil {
		return false, storeError(err)
	}
	movementType := entity.MovementTypeCreate
	if existing != nil {
		movementType = entity.MovementTypeUpdate
	}
	uc.audit.Emit(ctx, entity.MovementEntityHourClients, name, movementType, actorRef(actor), client)
	return existing == nil, nil
}

// Remove deshabilita un cliente. Para uno por defecto se guarda la baja explícita.
func (uc *HourClientUseCase) Remove(ctx context.Context, actor access.Principal, name string) error {
	if err := requireCatalog(actor); err != nil {
		return err
	}
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	client := &entity.HourClient{Name: name, Disabled: true, UpdatedAt: uc.now().UTC()}
	sctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.repo.Upsert(sctx, client); err != nil {
		return storeError(err)
	}
	uc.audit.Emit(ctx, entity.MovementEntityHourClients, name, entity.MovementTypeDelete, actorRef(actor), client)
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: el nombre supera %d caracteres", domain.ErrInvalidInput, maxNameLength)
	}
	return name, nil
}

func requireCatalog(actor access.Principal) error {
	if actor.IsAdmin() || actor.Caps.Has(access.CapHourClients) {
		return nil
	}
	return domain.ErrForbidden
}

func actorRef(actor access.Principal) string {
	if actor.Username != "" {
		return actor.Username
	}
	return actor.ID
}

// storeError marca como reintentables los cortes por timeout o cancelación.
func storeError(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
