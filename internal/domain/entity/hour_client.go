package entity

import "time"

// HourClient cliente del catálogo de carga de horas. Disabled oculta también a los clientes por defecto.
type HourClient struct {
	Name      string
	Disabled  bool
	UpdatedAt time.Time
}
