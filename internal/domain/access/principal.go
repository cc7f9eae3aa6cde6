// Package access decide qué puede hacer un usuario autenticado con los registros de horas.
//
// Los permisos llegan como documentos de rol anidados ({"timesheets": {"manage": true}}).
// Se reducen una sola vez, en el borde HTTP, a un conjunto tipado de capacidades que
// viaja explícitamente dentro del Principal; el motor nunca consulta permisos por ruta.
package access

import (
	"slices"
	"strings"

	"github.com/jhoicas/horas-api/internal/domain/entity"
)

// Capability permiso atómico sobre el motor de horas.
type Capability uint8

// Capacidades conocidas.
const (
	CapSubmit Capability = 1 << iota
	CapRead
	CapManage
	CapViewAll
	CapHourClients
)

// Capabilities conjunto de capacidades (bitmask).
type Capabilities uint8

// Has informa si el conjunto contiene c.
func (cs Capabilities) Has(c Capability) bool {
	return cs&Capabilities(c) != 0
}

// Any informa si el conjunto contiene al menos una de las capacidades.
func (cs Capabilities) Any(caps ...Capability) bool {
	for _, c := range caps {
		if cs.Has(c) {
			return true
		}
	}
	return false
}

// With agrega capacidades al conjunto.
func (cs Capabilities) With(caps ...Capability) Capabilities {
	for _, c := range caps {
		cs |= Capabilities(c)
	}
	return cs
}

// permissionPaths grupo/clave en los documentos de rol para cada capacidad.
var permissionPaths = map[Capability][2]string{
	CapSubmit:      {"timesheets", "submit"},
	CapRead:        {"timesheets", "read"},
	CapManage:      {"timesheets", "manage"},
	CapViewAll:     {"timesheets", "viewAll"},
	CapHourClients: {"hours", "clients"},
}

// PermissionSet permisos agrupados tal como se guardan en los roles.
type PermissionSet map[string]map[string]bool

// MergePermissions une varios conjuntos: un flag queda activo si algún rol lo otorga.
func MergePermissions(sets ...PermissionSet) PermissionSet {
	out := PermissionSet{}
	for _, set := range sets {
		for group, perms := range set {
			if group == "" {
				continue
			}
			if out[group] == nil {
				out[group] = map[string]bool{}
			}
			for key, v := range perms {
				if v {
					out[group][key] = true
				}
			}
		}
	}
	return out
}

// CapabilitiesFrom reduce permisos y roles a capacidades tipadas.
// El rol admin implica todas las capacidades del motor.
func CapabilitiesFrom(perms PermissionSet, roles []string) Capabilities {
	var cs Capabilities
	for c, path := range permissionPaths {
		if perms[path[0]][path[1]] {
			cs = cs.With(c)
		}
	}
	if hasRole(roles, entity.RoleAdmin) {
		cs = cs.With(CapSubmit, CapRead, CapManage, CapViewAll, CapHourClients)
	}
	return cs
}

func hasRole(roles []string, name string) bool {
	return slices.ContainsFunc(roles, func(r string) bool {
		return strings.EqualFold(strings.TrimSpace(r), name)
	})
}

// Principal usuario autenticado, con sus capacidades ya decididas.
type Principal struct {
	ID          string
	Username    string
	DisplayName string
	Roles       []string
	Caps        Capabilities
}

// NewPrincipal arma el principal a partir del usuario y los roles resueltos.
func NewPrincipal(u *entity.User, roles []*entity.Role) Principal {
	sets := make([]PermissionSet, 0, len(roles))
	for _, r := range roles {
		if r != nil {
			sets = append(sets, PermissionSet(r.Permissions))
		}
	}
	return Principal{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Roles:       slices.Clone(u.Roles),
		Caps:        CapabilitiesFrom(MergePermissions(sets...), u.Roles),
	}
}

// IsAdmin informa si el principal tiene el rol admin.
func (p Principal) IsAdmin() bool {
	return hasRole(p.Roles, entity.RoleAdmin)
}

// IsManager informa si el principal puede gestionar horas de cualquier usuario.
func (p Principal) IsManager() bool {
	return p.IsAdmin() || p.Caps.Has(CapManage)
}

// Name nombre a mostrar en la auditoría: displayName, username o "Sistema".
func (p Principal) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != "" {
		return p.Username
	}
	return "Sistema"
}
