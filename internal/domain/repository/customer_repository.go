package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ClientFilter filtros del listado de clientes.
type ClientFilter struct {
	NombreEmpresa string
	Limit         int
	Offset        int
}

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByCiRif(ctx context.Context, ciRif string) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, int, error)
	Update(ctx context.Context, client *entity.Client) error
	SoftDelete(ctx context.Context, id string) error
}
