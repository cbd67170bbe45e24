package usecase

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Lo usa la edición de productos: producto, lista de materiales y proveedores se guardan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		historialRepo repository.HistorialRepository,
	) error) error
}
