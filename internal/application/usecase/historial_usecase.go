package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// HistorialUseCase consultas sobre el libro de movimientos (solo lectura).
type HistorialUseCase struct {
	repo repository.HistorialRepository
}

// NewHistorialUseCase construye el caso de uso.
func NewHistorialUseCase(repo repository.HistorialRepository) *HistorialUseCase {
	return &HistorialUseCase{repo: repo}
}

// List devuelve el historial filtrado, más reciente primero. El rango de fechas incluye ambos días.
func (uc *HistorialUseCase) List(ctx context.Context, q dto.HistorialListQuery) (*dto.HistorialListResponse, error) {
	q.DefaultPage()
	filter := repository.HistorialFilter{
		ProductName:       strings.TrimSpace(q.ProductName),
		ProductID:         q.ProductID,
		ProviderID:        q.ProviderID,
		ClientID:          q.ClientID,
		ProductionOrderID: q.ProductionOrderID,
		Limit:             q.Limit,
		Offset:            q.Offset,
	}
	if q.Action != "" {
		action, err := entity.ParseHistorialAction(q.Action)
		if err != nil {
			return nil, err
		}
		filter.Action = action
	}
	if q.From != "" {
		from, err := time.Parse(dto.DateLayout, q.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(dto.DateLayout, q.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: from debe ser anterior o igual a to", domain.ErrInvalidInput)
	}
	rows, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HistorialResponse, 0, len(rows))
	for _, h := range rows {
		items = append(items, dto.ToHistorialResponse(h))
	}
	return &dto.HistorialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}
