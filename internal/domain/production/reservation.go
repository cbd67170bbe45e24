package production

import (
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComponentAdjustment cambio de stock calculado para un componente de la lista de materiales.
// Lleva lo necesario para aplicar el ajuste y registrar la fila de historial en la misma transacción.
// Action vacía indica que el ajuste no genera fila de historial (solo mueve reserva).
type ComponentAdjustment struct {
	ProductID       string
	Codigo          string
	Nombre          string
	Quantity        decimal.Decimal // cantidad movida, siempre >= 0
	DeltaExistencia decimal.Decimal
	DeltaReservada  decimal.Decimal
	Action          entity.HistorialAction
	Description     string
}

// Requirement cantidad total de un componente para fabricar N unidades.
type Requirement struct {
	ProductID string
	Quantity  decimal.Decimal
}

// Requirements calcula cantidadPorUnidad × qty por componente. Si un componente aparece
// más de una vez en la lista se acumula. Conserva el orden de la lista de materiales.
func Requirements(bom []entity.MaterialItem, qty int) []Requirement {
	units := decimal.NewFromInt(int64(qty))
	idx := make(map[string]int, len(bom))
	out := make([]Requirement, 0, len(bom))
	for _, m := range bom {
		q := m.Quantity.Mul(units)
		if i, ok := idx[m.ComponentID]; ok {
			out[i].Quantity = out[i].Quantity.Add(q)
			continue
		}
		idx[m.ComponentID] = len(out)
		out = append(out, Requirement{ProductID: m.ComponentID, Quantity: q})
	}
	return out
}

// indexComponents indexa los componentes por id y verifica que estén todos los de la lista.
func indexComponents(reqs []Requirement, components []*entity.Product) (map[string]*entity.Product, error) {
	byID := make(map[string]*entity.Product, len(components))
	for _, p := range components {
		if p != nil {
			byID[p.ID] = p
		}
	}
	var missing []string
	for _, r := range reqs {
		if _, ok := byID[r.ProductID]; !ok {
			missing = append(missing, r.ProductID)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrMaterialsNotFound, missing)
	}
	return byID, nil
}

// Reserve calcula el aumento de existenciaReservada de cada componente para fabricar qty unidades.
// No modifica los productos. Falla con ErrInsufficientStock si alguna reserva superaría la existencia.
func Reserve(bom []entity.MaterialItem, components []*entity.Product, qty int) ([]ComponentAdjustment, error) {
	reqs := Requirements(bom, qty)
	byID, err := indexComponents(reqs, components)
	if err != nil {
		return nil, err
	}
	out := make([]ComponentAdjustment, 0, len(reqs))
	for _, r := range reqs {
		p := byID[r.ProductID]
		if err := checkReservation(p, r.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ComponentAdjustment{
			ProductID:       p.ID,
			Codigo:          p.Codigo,
			Nombre:          p.Nombre,
			Quantity:        r.Quantity,
			DeltaExistencia: decimal.Zero,
			DeltaReservada:  r.Quantity,
		})
	}
	return out, nil
}

// Rebook recalcula la reserva cuando cambia la cantidad a fabricar:
// reservada - requerido(oldQty) + requerido(newQty). Solo devuelve componentes con delta distinto de cero.
func Rebook(bom []entity.MaterialItem, components []*entity.Product, oldQty, newQty int) ([]ComponentAdjustment, error) {
	oldReqs := Requirements(bom, oldQty)
	newReqs := Requirements(bom, newQty)
	byID, err := indexComponents(newReqs, components)
	if err != nil {
		return nil, err
	}
	oldByID := make(map[string]decimal.Decimal, len(oldReqs))
	for _, r := range oldReqs {
		oldByID[r.ProductID] = r.Quantity
	}
	out := make([]ComponentAdjustment, 0, len(newReqs))
	for _, r := range newReqs {
		p := byID[r.ProductID]
		delta := r.Quantity.Sub(oldByID[r.ProductID])
		if delta.IsZero() {
			continue
		}
		if delta.IsPositive() {
			if err := checkReservation(p, delta); err != nil {
				return nil, err
			}
		} else if p.ExistenciaReservada.Add(delta).IsNegative() {
			return nil, fmt.Errorf("%w: la existencia reservada del producto %s no puede ser negativa", domain.ErrInsufficientStock, p.Label())
		}
		out = append(out, ComponentAdjustment{
			ProductID:       p.ID,
			Codigo:          p.Codigo,
			Nombre:          p.Nombre,
			Quantity:        delta.Abs(),
			DeltaExistencia: decimal.Zero,
			DeltaReservada:  delta,
		})
	}
	return out, nil
}

// Release libera la reserva de qty unidades. No falla: la reserva liberada fue concedida antes.
// Los componentes que no estén en components se devuelven solo con ProductID.
func Release(bom []entity.MaterialItem, components []*entity.Product, qty int) []ComponentAdjustment {
	reqs := Requirements(bom, qty)
	byID := make(map[string]*entity.Product, len(components))
	for _, p := range components {
		if p != nil {
			byID[p.ID] = p
		}
	}
	out := make([]ComponentAdjustment, 0, len(reqs))
	for _, r := range reqs {
		adj := ComponentAdjustment{
			ProductID:       r.ProductID,
			Quantity:        r.Quantity,
			DeltaExistencia: decimal.Zero,
			DeltaReservada:  r.Quantity.Neg(),
		}
		if p, ok := byID[r.ProductID]; ok {
			adj.Codigo, adj.Nombre = p.Codigo, p.Nombre
		}
		out = append(out, adj)
	}
	return out
}

// Consume convierte la reserva de qty unidades en gasto real: baja existencia y existenciaReservada.
// Cada ajuste lleva la acción GASTODEPRODUCCION.
func Consume(bom []entity.MaterialItem, components []*entity.Product, qty int) ([]ComponentAdjustment, error) {
	reqs := Requirements(bom, qty)
	byID, err := indexComponents(reqs, components)
	if err != nil {
		return nil, err
	}
	out := make([]ComponentAdjustment, 0, len(reqs))
	for _, r := range reqs {
		p := byID[r.ProductID]
		if p.Existencia.LessThan(r.Quantity) {
			return nil, fmt.Errorf("%w: el producto %s tiene %s en existencia y la orden requiere %s",
				domain.ErrInsufficientStock, p.Label(), p.Existencia, r.Quantity)
		}
		// La reserva pudo haberse reducido por fuera; nunca se deja negativa.
		deltaReservada := decimal.Min(r.Quantity, p.ExistenciaReservada).Neg()
		if err := p.CheckAdjustment(r.Quantity.Neg(), deltaReservada); err != nil {
			return nil, err
		}
		out = append(out, ComponentAdjustment{
			ProductID:       p.ID,
			Codigo:          p.Codigo,
			Nombre:          p.Nombre,
			Quantity:        r.Quantity,
			DeltaExistencia: r.Quantity.Neg(),
			DeltaReservada:  deltaReservada,
			Action:          entity.ActionGastoDeProduccion,
			Description:     fmt.Sprintf("Gasto de %s unidades de %s para fabricar %d unidades", r.Quantity, p.Label(), qty),
		})
	}
	return out, nil
}

func checkReservation(p *entity.Product, required decimal.Decimal) error {
	newReserved := p.ExistenciaReservada.Add(required)
	if newReserved.GreaterThan(p.Existencia) {
		return fmt.Errorf("%w: el producto %s no tiene existencia suficiente (existencia %s, reservada %s, requerida %s)",
			domain.ErrInsufficientStock, p.Label(), p.Existencia, p.ExistenciaReservada, required)
	}
	return nil
}
