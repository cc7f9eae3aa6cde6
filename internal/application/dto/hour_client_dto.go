package dto

// HourClientRequest alta (o reactivación) de un cliente del catálogo de horas.
type HourClientRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// HourClientResponse cliente del catálogo.
type HourClientResponse struct {
	Name string `json:"name"`
}

// HourClientListResponse clientes activos ordenados alfabéticamente.
type HourClientListResponse struct {
	Items []string `json:"items"`
}
