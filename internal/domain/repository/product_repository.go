package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros del listado de productos (coincidencia parcial en codigo y nombre).
type ProductFilter struct {
	Codigo      string
	Nombre      string
	ProductType entity.ProductType
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product y su lista de materiales (DIP).
// Los métodos Get* devuelven (nil, nil) si el producto no existe o fue eliminado.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	// GetForUpdate bloquea las filas (SELECT FOR UPDATE) en orden de id. Solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error)
	// Update actualiza datos descriptivos y el tipo. No modifica existencias.
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma los deltas de forma atómica y devuelve el producto resultante.
	// Devuelve domain.ErrInsufficientStock si el resultado rompe 0 <= reservada <= existencia.
	AdjustStock(ctx context.Context, id string, deltaExistencia, deltaReservada decimal.Decimal) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	SoftDelete(ctx context.Context, id string) error

	GetMaterials(ctx context.Context, compoundID string) ([]entity.MaterialItem, error)
	ReplaceMaterials(ctx context.Context, compoundID string, items []entity.MaterialItem) error
	// GetConsumers devuelve los ids de productos que usan componentID en su lista de materiales.
	GetConsumers(ctx context.Context, componentID string) ([]string, error)

	SetProviders(ctx context.Context, productID string, providerIDs []string) error
}
