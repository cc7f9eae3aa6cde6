// Package worktime implementa la aritmética horaria de los turnos: lectura de "HH:MM",
// duración con cruce de medianoche y minutos nocturnos.
//
// Todas las cuentas se hacen en minutos desde la medianoche del día de negocio.
// Un turno que termina "antes" de empezar cruza la medianoche, por eso la escala
// se extiende a dos días (0–2880).
package worktime

import (
	"fmt"

	"github.com/jhoicas/horas-api/internal/domain"
)

// DayMinutes minutos en un día.
const DayMinutes = 24 * 60

// MaxShiftMinutes duración máxima admitida para un turno.
const MaxShiftMinutes = DayMinutes

// nightWindows franjas nocturnas: 21:00–24:00 y 00:00–06:00 del día siguiente.
var nightWindows = [...][2]int{
	{21 * 60, 24 * 60},
	{24 * 60, 30 * 60},
}

// ParseClock convierte "HH:MM" (24 h, dos dígitos por campo) en minutos desde la medianoche.
func ParseClock(text string) (int, error) {
	if len(text) != 5 || text[2] != ':' {
		return 0, fmt.Errorf("%w: %q no tiene formato HH:MM", domain.ErrInvalidSchedule, text)
	}
	h, okH := twoDigits(text[0], text[1])
	m, okM := twoDigits(text[3], text[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q fuera de rango", domain.ErrInvalidSchedule, text)
	}
	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatClock es la inversa de ParseClock para minutos dentro del día.
func FormatClock(minutes int) string {
	minutes = ((minutes % DayMinutes) + DayMinutes) % DayMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ShiftDuration devuelve los minutos entre inicio y fin, sumando un día si el fin
// es anterior al inicio. Inicio igual a fin no tiene duración y devuelve 0.
func ShiftDuration(startMinutes, endMinutes int) int {
	if startMinutes == endMinutes {
		return 0
	}
	diff := endMinutes - startMinutes
	if diff < 0 {
		diff += DayMinutes
	}
	return diff
}

// NightOverlap minutos de [inicio, fin) que caen en franjas nocturnas.
// El fin se corre un día si es menor o igual al inicio. Las franjas se repiten
// desplazadas ±24 h: la noche anterior cubre turnos que empiezan de madrugada
// y la siguiente los que terminan al otro día.
func NightOverlap(startMinutes, endMinutes int) int {
	end := endMinutes
	if end <= startMinutes {
		end += DayMinutes
	}
	total := 0
	for day := -1; day <= 1; day++ {
		offset := day * DayMinutes
		for _, w := range nightWindows {
			lo := max(startMinutes, w[0]+offset)
			hi := min(end, w[1]+offset)
			if hi > lo {
				total += hi - lo
			}
		}
	}
	return min(max(total, 0), end-startMinutes)
}

// Schedule resultado de valorizar un par inicio/fin.
type Schedule struct {
	StartMinutes    int
	EndMinutes      int
	DurationMinutes int
	NightMinutes    int
}

// Compute valida inicio y fin y calcula duración y minutos nocturnos.
// Falla con ErrEmptyDuration si inicio y fin coinciden, y con ErrInvalidSchedule
// si alguno no se puede leer o el turno excede un día.
func Compute(startTime, endTime string) (Schedule, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Schedule{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Schedule{}, err
	}
	duration := ShiftDuration(start, end)
	if duration <= 0 {
		return Schedule{}, fmt.Errorf("%w: inicio y fin coinciden (%s)", domain.ErrEmptyDuration, startTime)
	}
	if duration > MaxShiftMinutes {
		return Schedule{}, fmt.Errorf("%w: el turno supera las 24 horas", domain.ErrInvalidSchedule)
	}
	return Schedule{
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: duration,
		NightMinutes:    NightOverlap(start, end),
	}, nil
}

// FormatMinutes formatea minutos como "8h 30m" o "45m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		return "-" + FormatMinutes(-minutes)
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
