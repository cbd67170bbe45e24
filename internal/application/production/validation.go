package production

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

const (
	minResponsables = 10
	maxResponsables = 400
)

func validateCantidad(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidadProductoFabricado debe ser mayor a 0", domain.ErrInvalidInput)
	}
	return nil
}

func validateResponsables(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < minResponsables || n > maxResponsables {
		return fmt.Errorf("%w: responsables debe tener entre %d y %d caracteres", domain.ErrInvalidInput, minResponsables, maxResponsables)
	}
	return nil
}

// parseEndDate interpreta la fecha (YYYY-MM-DD) en la zona del reloj y exige que sea posterior a hoy.
// Solo compara el día; la hora se ignora.
func parseEndDate(s string, now time.Time) (time.Time, error) {
	end, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: endDate debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if !end.After(today) {
		return time.Time{}, fmt.Errorf("%w: endDate debe ser posterior a la fecha actual", domain.ErrInvalidInput)
	}
	return end, nil
}

// StateOptions estados de orden con su clave, en orden de ciclo de vida.
func StateOptions() []dto.ActionResponse {
	states := entity.OrderStates()
	out := make([]dto.ActionResponse, 0, len(states))
	for _, st := range states {
		out = append(out, dto.ActionResponse{Key: st.Key(), Value: string(st)})
	}
	return out
}
