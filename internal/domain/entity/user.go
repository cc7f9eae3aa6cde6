package entity

// RoleAdmin rol con autoridad total sobre las horas.
const RoleAdmin = "admin"

// User identidad mínima que el motor de horas necesita del módulo de usuarios.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Roles       []string
}

// Role documento de rol con permisos agrupados: {"timesheets": {"submit": true}}.
type Role struct {
	Name        string
	Permissions map[string]map[string]bool
}
