package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProviderFilter filtros del listado de proveedores.
type ProviderFilter struct {
	EnterpriseName string
	Limit          int
	Offset         int
}

// ProviderRepository define el puerto de persistencia para Provider.
type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	GetByID(ctx context.Context, id string) (*entity.Provider, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Provider, error)
	GetByCiRif(ctx context.Context, ciRif string) (*entity.Provider, error)
	List(ctx context.Context, filter ProviderFilter) ([]*entity.Provider, int, error)
	Update(ctx context.Context, provider *entity.Provider) error
	SoftDelete(ctx context.Context, id string) error
}
