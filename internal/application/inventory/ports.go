package inventory

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el ajuste de stock y su fila de historial se confirman juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		historialRepo repository.HistorialRepository,
	) error) error
}
