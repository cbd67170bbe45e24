package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

// OrderState estado del ciclo de vida de una orden de producción.
type OrderState string

// Estados de orden. Los valores son los persistidos.
const (
	OrderStatePorIniciar OrderState = "Por iniciar"
	OrderStateEnProceso  OrderState = "En proceso"
	OrderStateEjecutada  OrderState = "Ejecutada"
	OrderStateCancelada  OrderState = "Cancelada"
)

// orderTransitions tabla cerrada de transiciones legales.
var orderTransitions = map[OrderState][]OrderState{
	OrderStatePorIniciar: {OrderStateEnProceso, OrderStateCancelada},
	OrderStateEnProceso:  {OrderStateEjecutada},
	OrderStateEjecutada:  nil,
	OrderStateCancelada:  nil,
}

var orderStateKeys = map[string]OrderState{
	"PorIniciar": OrderStatePorIniciar,
	"EnProceso":  OrderStateEnProceso,
	"Ejecutada":  OrderStateEjecutada,
	"Cancelada":  OrderStateCancelada,
}

// OrderStates devuelve los estados en orden de ciclo de vida.
func OrderStates() []OrderState {
	return []OrderState{OrderStatePorIniciar, OrderStateEnProceso, OrderStateEjecutada, OrderStateCancelada}
}

// ParseOrderState acepta la clave ("EnProceso") o el valor ("En proceso").
func ParseOrderState(s string) (OrderState, error) {
	s = strings.TrimSpace(s)
	if st, ok := orderStateKeys[s]; ok {
		return st, nil
	}
	st := OrderState(s)
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: orderState inválido %q. Los valores válidos son: PorIniciar, EnProceso, Ejecutada, Cancelada", domain.ErrInvalidInput, s)
}

// Key devuelve la clave del estado ("EnProceso").
func (s OrderState) Key() string {
	for k, st := range orderStateKeys {
		if st == s {
			return k
		}
	}
	return ""
}

// Valid indica si el estado pertenece al conjunto cerrado.
func (s OrderState) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal indica si el estado no admite más transiciones.
func (s OrderState) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo indica si target es alcanzable directamente desde s.
func (s OrderState) CanTransitionTo(target OrderState) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ProductionOrder orden para fabricar CantidadProductoFabricado unidades de un producto compuesto.
type ProductionOrder struct {
	ID                        string
	ProductID                 string
	CantidadProductoFabricado int
	OrderState                OrderState
	StartDate                 *time.Time // al pasar a En proceso
	EndDate                   time.Time  // fecha planificada de culminación
	RealEndDate               *time.Time // al pasar a Ejecutada
	Responsables              string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// IsOpen indica si la orden mantiene reserva de materiales.
func (o *ProductionOrder) IsOpen() bool {
	return o.OrderState == OrderStatePorIniciar || o.OrderState == OrderStateEnProceso
}

// Transition valida y aplica el cambio de estado, fijando las fechas correspondientes.
// No toca stock: eso lo hace el motor de reservas.
func (o *ProductionOrder) Transition(target OrderState, now time.Time) error {
	if !o.OrderState.CanTransitionTo(target) {
		return fmt.Errorf("%w: no se puede pasar la orden de %q a %q", domain.ErrInvalidTransition, o.OrderState, target)
	}
	switch target {
	case OrderStateEnProceso:
		o.StartDate = &now
	case OrderStateEjecutada:
		o.RealEndDate = &now
	}
	o.OrderState = target
	o.UpdatedAt = now
	return nil
}
