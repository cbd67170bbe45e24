package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductType clasifica el producto según su lista de materiales (derivado, no elegido por el usuario).
type ProductType string

// Tipos de producto.
const (
	ProductTypeInsumos    ProductType = "insumos"    // materia prima, sin lista de materiales
	ProductTypeSencillos  ProductType = "sencillos"  // fabricado solo con insumos
	ProductTypeCompuestos ProductType = "compuestos" // fabricado con sencillos o compuestos
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeInsumos, ProductTypeSencillos, ProductTypeCompuestos:
		return true
	}
	return false
}

// QuantityScale decimales con que se guardan cantidades y existencias (NUMERIC(18, 4)).
const QuantityScale = 4

// FitsQuantityScale indica si q se guarda sin redondeo.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}

// ProductImage referencia a la imagen del producto.
type ProductImage struct {
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Product representa un insumo o producto fabricado.
// Existencia es el stock en mano; ExistenciaReservada lo comprometido con órdenes abiertas.
// Siempre se cumple 0 <= ExistenciaReservada <= Existencia.
type Product struct {
	ID                  string
	Codigo              string // único
	Nombre              string
	ProductType         ProductType
	MeasureUnit         string
	Existencia          decimal.Decimal
	ExistenciaReservada decimal.Decimal
	Planos              string // URL de los planos
	Image               *ProductImage
	ProviderIDs         []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// Label devuelve "codigo - nombre", el formato usado en los mensajes de error.
func (p *Product) Label() string {
	return fmt.Sprintf("%s - %s", p.Codigo, p.Nombre)
}

// Disponible es la existencia libre (no reservada).
func (p *Product) Disponible() decimal.Decimal {
	return p.Existencia.Sub(p.ExistenciaReservada)
}

// IsDeleted indica si el producto fue eliminado lógicamente.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// CheckAdjustment valida que aplicar los deltas mantenga el invariante de stock.
func (p *Product) CheckAdjustment(deltaExistencia, deltaReservada decimal.Decimal) error {
	newExistencia := p.Existencia.Add(deltaExistencia)
	newReservada := p.ExistenciaReservada.Add(deltaReservada)
	if newExistencia.IsNegative() {
		return fmt.Errorf("%w: no se puede reducir la existencia del producto %s a menos de cero", domain.ErrInsufficientStock, p.Label())
	}
	if newReservada.IsNegative() {
		return fmt.Errorf("%w: la existencia reservada del producto %s no puede ser negativa", domain.ErrInsufficientStock, p.Label())
	}
	if newReservada.GreaterThan(newExistencia) {
		return fmt.Errorf("%w: la existencia reservada del producto %s superaría la existencia total", domain.ErrInsufficientStock, p.Label())
	}
	return nil
}

// ApplyAdjustment aplica los deltas si respetan el invariante; si no, no modifica nada.
func (p *Product) ApplyAdjustment(deltaExistencia, deltaReservada decimal.Decimal) error {
	if err := p.CheckAdjustment(deltaExistencia, deltaReservada); err != nil {
		return err
	}
	p.Existencia = p.Existencia.Add(deltaExistencia)
	p.ExistenciaReservada = p.ExistenciaReservada.Add(deltaReservada)
	return nil
}

// MaterialItem es una arista de la lista de materiales: CompoundID consume Quantity
// unidades de ComponentID por cada unidad fabricada.
type MaterialItem struct {
	ID          string
	CompoundID  string
	ComponentID string
	Quantity    decimal.Decimal
}
