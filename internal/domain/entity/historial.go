package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// HistorialAction tipo de movimiento registrado en el historial. El valor es el persistido.
type HistorialAction string

// Acciones del historial.
const (
	ActionIngreso              HistorialAction = "ingreso"
	ActionEgreso               HistorialAction = "egreso"
	ActionVenta                HistorialAction = "venta"
	ActionVarios               HistorialAction = "varios"
	ActionOrdenProduccion      HistorialAction = "Orden de producción"
	ActionGastoDeProduccion    HistorialAction = "Gasto por orden de producción"
	ActionIngresoPorProduccion HistorialAction = "Ingreso por producción"
)

var historialActionKeys = []struct {
	key    string
	action HistorialAction
}{
	{"INGRESO", ActionIngreso},
	{"EGRESO", ActionEgreso},
	{"VENTA", ActionVenta},
	{"VARIOS", ActionVarios},
	{"ORDENPRODUCCION", ActionOrdenProduccion},
	{"GASTODEPRODUCCION", ActionGastoDeProduccion},
	{"INGRESOPORPRODUCCION", ActionIngresoPorProduccion},
}

// Acciones válidas para cargas y descargas manuales.
var (
	ChargeActions    = []HistorialAction{ActionIngreso, ActionVarios}
	DischargeActions = []HistorialAction{ActionEgreso, ActionVenta, ActionVarios}
)

// ParseHistorialAction acepta la clave ("VENTA") o el valor persistido ("venta").
func ParseHistorialAction(s string) (HistorialAction, error) {
	s = strings.TrimSpace(s)
	for _, k := range historialActionKeys {
		if k.key == s || string(k.action) == s {
			return k.action, nil
		}
	}
	return "", fmt.Errorf("%w: HistorialAction inválido %q. Los valores válidos son: INGRESO, EGRESO, VENTA, VARIOS, ORDENPRODUCCION, GASTODEPRODUCCION, INGRESOPORPRODUCCION", domain.ErrInvalidInput, s)
}

// Key devuelve la clave de la acción ("VENTA").
func (a HistorialAction) Key() string {
	for _, k := range historialActionKeys {
		if k.action == a {
			return k.key
		}
	}
	return ""
}

// In indica si la acción está en la lista dada.
func (a HistorialAction) In(actions []HistorialAction) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

// Historial registro inmutable de un movimiento de stock o de un hito de una orden.
type Historial struct {
	ID                string
	Action            HistorialAction
	Cantidad          decimal.Decimal
	Description       string
	ProductID         *string
	ClientID          *string
	ProviderID        *string
	ProductionOrderID *string
	CreatedAt         time.Time
}
