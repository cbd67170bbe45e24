package production

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de reservas: si fn devuelve error no queda nada confirmado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		historialRepo repository.HistorialRepository,
	) error) error
}

// Clock devuelve la hora actual. En tests se fija.
type Clock func() time.Time
