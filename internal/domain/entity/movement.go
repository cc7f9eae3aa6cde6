package entity

import "time"

// Tipos de movimiento de auditoría.
const (
	MovementTypeCreate = "create"
	MovementTypeUpdate = "update"
	MovementTypeDelete = "delete"
)

// Entidades auditadas por este servicio.
const (
	MovementEntityTimesheets  = "timesheets"
	MovementEntityHourClients = "hourclients"
)

// Movement registro normalizado para el log de auditoría compartido.
type Movement struct {
	ID       string
	Entity   string
	EntityID string
	Type     string
	By       string
	Payload  any // se serializa como JSON
	At       time.Time
}
