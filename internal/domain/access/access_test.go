package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/horas-api/internal/domain"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func operario(id string) access.Principal {
	return access.Principal{ID: id, Username: id, Caps: access.Capabilities(0).With(access.CapSubmit)}
}

func gestor(id string) access.Principal {
	return access.Principal{ID: id, Username: id, Caps: access.Capabilities(0).With(access.CapSubmit, access.CapManage)}
}

func entryCreatedAgo(owner string, ago time.Duration) *entity.TimesheetEntry {
	return &entity.TimesheetEntry{ID: "t1", UserID: owner, Date: "2026-03-09", CreatedAt: now.Add(-ago)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Capacidades
// ──────────────────────────────────────────────────────────────────────────────

func TestMergePermissions_UnionDeFlags(t *testing.T) {
	merged := access.MergePermissions(
		access.PermissionSet{"timesheets": {"submit": true, "manage": false}},
		access.PermissionSet{"timesheets": {"read": true}, "hours": {"clients": true}},
		access.PermissionSet{"": {"x": true}},
	)
	assert.True(t, merged["timesheets"]["submit"])
	assert.True(t, merged["timesheets"]["read"])
	assert.False(t, merged["timesheets"]["manage"])
	assert.True(t, merged["hours"]["clients"])
	assert.NotContains(t, merged, "")
}

func TestCapabilitiesFrom(t *testing.T) {
	caps := access.CapabilitiesFrom(access.PermissionSet{"timesheets": {"viewAll": true}}, nil)
	assert.True(t, caps.Has(access.CapViewAll))
	assert.False(t, caps.Has(access.CapManage))
	assert.True(t, caps.Any(access.CapRead, access.CapViewAll))

	admin := access.CapabilitiesFrom(nil, []string{" Admin "})
	for _, c := range []access.Capability{access.CapSubmit, access.CapRead, access.CapManage, access.CapViewAll, access.CapHourClients} {
		assert.True(t, admin.Has(c))
	}
}

func TestNewPrincipal_ResuelveRoles(t *testing.T) {
	u := &entity.User{ID: "u1", Username: "jperez", DisplayName: "Juan Pérez", Roles: []string{"operario", "gestor-horas"}}
	p := access.NewPrincipal(u, []*entity.Role{
		{Name: "operario", Permissions: map[string]map[string]bool{"timesheets": {"submit": true}}},
		{Name: "gestor-horas", Permissions: map[string]map[string]bool{"timesheets": {"manage": true, "read": true}}},
		nil,
	})
	assert.True(t, p.IsManager())
	assert.False(t, p.IsAdmin())
	assert.True(t, p.Caps.Has(access.CapRead))
	assert.Equal(t, "Juan Pérez", p.Name())
}

func TestPrincipal_Name(t *testing.T) {
	assert.Equal(t, "jperez", access.Principal{Username: "jperez"}.Name())
	assert.Equal(t, "Sistema", access.Principal{}.Name())
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de edición
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_RegistroAjenoSiempreForbidden(t *testing.T) {
	policy := access.NewEditPolicy(24 * time.Hour)
	for _, ago := range []time.Duration{time.Minute, 23 * time.Hour, 25 * time.Hour, 30 * 24 * time.Hour} {
		err := policy.Authorize(operario("u1"), entryCreatedAgo("u2", ago), now)
		assert.ErrorIs(t, err, domain.ErrForbidden, "creado hace %s", ago)
	}
}

func TestAuthorize_VentanaDeVeinticuatroHoras(t *testing.T) {
	policy := access.NewEditPolicy(24 * time.Hour)

	assert.NoError(t, policy.Authorize(operario("u1"), entryCreatedAgo("u1", 23*time.Hour), now))
	assert.NoError(t, policy.Authorize(operario("u1"), entryCreatedAgo("u1", 24*time.Hour), now), "el límite exacto todavía es editable")
	assert.ErrorIs(t, policy.Authorize(operario("u1"), entryCreatedAgo("u1", 25*time.Hour), now), domain.ErrEditWindowExpired)
}

func TestAuthorize_SinCreatedAtUsaMedianocheUTCDeLaFecha(t *testing.T) {
	policy := access.NewEditPolicy(24 * time.Hour)

	e := &entity.TimesheetEntry{UserID: "u1", Date: "2026-03-10"}
	assert.NoError(t, policy.Authorize(operario("u1"), e, now))

	e.Date = "2026-03-08"
	assert.ErrorIs(t, policy.Authorize(operario("u1"), e, now), domain.ErrEditWindowExpired)

	e.Date = "no-es-fecha"
	assert.ErrorIs(t, policy.Authorize(operario("u1"), e, now), domain.ErrEditWindowExpired)
}

func TestAuthorize_GestorSinLimites(t *testing.T) {
	policy := access.NewEditPolicy(24 * time.Hour)
	assert.NoError(t, policy.Authorize(gestor("g1"), entryCreatedAgo("u2", 90*24*time.Hour), now))

	admin := access.Principal{ID: "a1", Roles: []string{"admin"}}
	assert.True(t, policy.CanEdit(admin, entryCreatedAgo("u2", 90*24*time.Hour), now))
}

func TestEditableUntil(t *testing.T) {
	policy := access.NewEditPolicy(24 * time.Hour)
	e := entryCreatedAgo("u1", 2*time.Hour)

	until, ok := policy.EditableUntil(operario("u1"), e)
	require.True(t, ok)
	assert.Equal(t, e.CreatedAt.Add(24*time.Hour), until)

	_, ok = policy.EditableUntil(gestor("g1"), e)
	assert.False(t, ok)
	_, ok = policy.EditableUntil(operario("u2"), e)
	assert.False(t, ok)
}

func TestNewEditPolicy_VentanaPorDefecto(t *testing.T) {
	assert.Equal(t, access.DefaultEditWindow, access.NewEditPolicy(0).Window())
}

func TestOwnerForCreate(t *testing.T) {
	assert.Equal(t, "u1", access.OwnerForCreate(operario("u1"), "u9"), "un operario no puede cargar a nombre de otro")
	assert.Equal(t, "u9", access.OwnerForCreate(gestor("g1"), "u9"))
	assert.Equal(t, "g1", access.OwnerForCreate(gestor("g1"), ""))
	assert.Equal(t, "u1", access.OwnerForCreate(operario("u1"), "u1"), "pedirse a sí mismo es válido")
	assert.Equal(t, "u1", access.OwnerForCreate(operario("u1"), ""))

	assert.False(t, access.CanCreateFor(operario("u1"), "u9"))
	assert.True(t, access.CanCreateFor(operario("u1"), "u1"))
	assert.True(t, access.CanCreateFor(gestor("g1"), "u9"))
}
