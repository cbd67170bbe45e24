package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// HistorialFilter filtros del historial. Nil/vacío = sin filtro. From es inclusivo y To exclusivo.
type HistorialFilter struct {
	ProductName       string
	ProductID         string
	ProviderID        string
	ClientID          string
	ProductionOrderID string
	Action            entity.HistorialAction
	From              *time.Time
	To                *time.Time
	Limit             int
	Offset            int
}

// HistorialRepository puerto del libro de movimientos. Solo inserta y consulta: nunca actualiza ni borra.
type HistorialRepository interface {
	Create(ctx context.Context, entry *entity.Historial) error
	List(ctx context.Context, filter HistorialFilter) ([]*entity.Historial, int, error)
}
