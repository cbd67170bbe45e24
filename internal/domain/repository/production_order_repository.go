package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionOrderFilter filtros del listado de órdenes. Las fechas comparan solo el día.
type ProductionOrderFilter struct {
	ProductName string
	ProductID   string
	OrderState  entity.OrderState
	StartDate   *time.Time
	EndDate     *time.Time
	RealEndDate *time.Time
	Limit       int
	Offset      int
}

// ProductionOrderRepository define el puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	// GetForUpdate bloquea la fila de la orden dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error)
	Update(ctx context.Context, order *entity.ProductionOrder) error
	List(ctx context.Context, filter ProductionOrderFilter) ([]*entity.ProductionOrder, int, error)
	// CountOpenByProduct cuenta órdenes Por iniciar o En proceso del producto.
	CountOpenByProduct(ctx context.Context, productID string) (int, error)
}
