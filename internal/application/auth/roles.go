package auth

import "github.com/jhoicas/horas-api/internal/domain/entity"

// DefaultRoles roles base del motor de horas. Los carga `horasctl seed-roles` y el
// arranque con store en memoria.
func DefaultRoles() []*entity.Role {
	return []*entity.Role{
		{Name: entity.RoleAdmin, Permissions: map[string]map[string]bool{}},
		{Name: "operario", Permissions: map[string]map[string]bool{
			"timesheets": {"submit": true},
		}},
		{Name: "gestor-horas", Permissions: map[string]map[string]bool{
			"timesheets": {"submit": true, "read": true, "manage": true, "viewAll": true},
			"hours":      {"clients": true},
		}},
	}
}
