package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/repository"
	"github.com/jhoicas/horas-api/pkg/jwt"
)

// TokenConfig configuración para validar tokens.
type TokenConfig struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// PrincipalResolver arma el principal de cada request: usuario más permisos
// fusionados de sus roles, reducidos una sola vez a capacidades.
type PrincipalResolver struct {
	users   repository.UserRepository
	roles   repository.RoleRepository
	tokens  TokenConfig
	timeout time.Duration
}

// DefaultStoreTimeout tiempo máximo de las lecturas de usuario y roles.
const DefaultStoreTimeout = 10 * time.Second

// NewPrincipalResolver construye el resolvedor.
func NewPrincipalResolver(users repository.UserRepository, roles repository.RoleRepository, tokens TokenConfig) *PrincipalResolver {
	return &PrincipalResolver{users: users, roles: roles, tokens: tokens, timeout: DefaultStoreTimeout}
}

// WithStoreTimeout fija el tiempo máximo de cada resolución contra el store.
// Un valor no positivo deja el de por defecto.
func (r *PrincipalResolver) WithStoreTimeout(d time.Duration) *PrincipalResolver {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Authenticate valida el token y resuelve el principal.
func (r *PrincipalResolver) Authenticate(ctx context.Context, token string) (access.Principal, error) {
	userID, _, err := jwt.Parse(r.tokens.Secret, token)
	if err != nil {
		return access.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return r.Resolve(ctx, userID)
}

// Resolve carga el usuario y sus roles. Un usuario inexistente no está autorizado.
func (r *PrincipalResolver) Resolve(ctx context.Context, userID string) (access.Principal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return access.Principal{}, domain.ErrUnauthorized
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return access.Principal{}, storeError(err)
	}
	if u == nil {
		return access.Principal{}, fmt.Errorf("%w: usuario %s inexistente", domain.ErrUnauthorized, userID)
	}
	roles, err := r.roles.ListByNames(ctx, u.Roles)
	if err != nil {
		return access.Principal{}, storeError(err)
	}
	return access.NewPrincipal(u, roles), nil
}

// IssueToken genera un token para userID. Lo usa la CLI de operación; el login vive en otro módulo.
func (r *PrincipalResolver) IssueToken(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", storeError(err)
	}
	if u == nil {
		return "", domain.ErrUserNotFound
	}
	exp := r.tokens.ExpMinutes
	if exp <= 0 {
		exp = 60
	}
	return jwt.Generate(r.tokens.Secret, u.ID, u.Username, r.tokens.Issuer, exp)
}

// storeError marca como reintentables los cortes por timeout o cancelación.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
