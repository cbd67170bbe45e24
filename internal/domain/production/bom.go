package production

import (
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// DeriveProductType calcula el tipo a partir de los componentes de la lista de materiales:
// sin materiales es insumos; con algún componente sencillo o compuesto es compuestos; solo insumos es sencillos.
func DeriveProductType(components []*entity.Product) entity.ProductType {
	if len(components) == 0 {
		return entity.ProductTypeInsumos
	}
	for _, c := range components {
		if c.ProductType == entity.ProductTypeSencillos || c.ProductType == entity.ProductTypeCompuestos {
			return entity.ProductTypeCompuestos
		}
	}
	return entity.ProductTypeSencillos
}

// ChildrenFunc devuelve los ids de los componentes directos de un producto.
type ChildrenFunc func(productID string) ([]string, error)

// DetectCycle verifica que asignar componentIDs como materiales de compoundID no genere un ciclo
// en el grafo de listas de materiales. Recorre en profundidad desde cada componente; si alcanza
// compoundID devuelve ErrInvalidInput con el camino encontrado.
func DetectCycle(compoundID string, componentIDs []string, children ChildrenFunc) error {
	visited := make(map[string]bool)
	var walk func(id string, path []string) error
	walk = func(id string, path []string) error {
		if id == compoundID {
			return fmt.Errorf("%w: la lista de materiales genera un ciclo (%v)", domain.ErrInvalidInput, append(path, id))
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		next, err := children(id)
		if err != nil {
			return err
		}
		for _, n := range next {
			if err := walk(n, append(path, id)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range componentIDs {
		if err := walk(c, []string{compoundID}); err != nil {
			return err
		}
	}
	return nil
}
