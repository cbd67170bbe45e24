// Package analytics contiene los casos de uso de estadísticas de producción y ventas (solo lectura).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

const defaultTopN = 6 // productos en los rankings de consumo y ventas

var monthLabels = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// StatisticsUseCase genera el resumen de estadísticas del año en curso.
//
// Fuente de datos: StatisticsRepository (consultas read-only).
type StatisticsUseCase struct {
	statsRepo repository.StatisticsRepository
	topN      int
	now       func() time.Time
}

// NewStatisticsUseCase construye el caso de uso. topN <= 0 usa 6; now nil usa time.Now.
func NewStatisticsUseCase(statsRepo repository.StatisticsRepository, topN int, now func() time.Time) *StatisticsUseCase {
	if topN <= 0 {
		topN = defaultTopN
	}
	if now == nil {
		now = time.Now
	}
	return &StatisticsUseCase{statsRepo: statsRepo, topN: topN, now: now}
}

// GetStatistics construye el StatisticsResponse.
//
// Tres llamadas en paralelo:
//  1. CountExecutedOrdersByMonth(año en curso) → MonthlyOrders (12 meses, con ceros)
//  2. GetMaterialConsumption(top N)            → MostUsedProducts
//  3. GetTopSales(top N)                       → TopSalesProducts
func (uc *StatisticsUseCase) GetStatistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	now := uc.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := yearStart.AddDate(1, 0, 0).Add(-time.Nanosecond)

	type monthlyResult struct {
		counts []repository.MonthlyCount
		err    error
	}
	type usageResult struct {
		items []repository.ProductUsageResult
		err   error
	}

	monthlyCh := make(chan monthlyResult, 1)
	usedCh := make(chan usageResult, 1)
	salesCh := make(chan usageResult, 1)

	go func() {
		counts, err := uc.statsRepo.CountExecutedOrdersByMonth(ctx, yearStart, yearEnd)
		monthlyCh <- monthlyResult{counts, err}
	}()
	go func() {
		items, err := uc.statsRepo.GetMaterialConsumption(ctx, uc.topN)
		usedCh <- usageResult{items, err}
	}()
	go func() {
		items, err := uc.statsRepo.GetTopSales(ctx, uc.topN)
		salesCh <- usageResult{items, err}
	}()

	monthly := <-monthlyCh
	used := <-usedCh
	sales := <-salesCh

	if monthly.err != nil {
		return nil, fmt.Errorf("estadísticas: órdenes por mes: %w", monthly.err)
	}
	if used.err != nil {
		return nil, fmt.Errorf("estadísticas: materiales más usados: %w", used.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("estadísticas: productos más vendidos: %w", sales.err)
	}

	return &dto.StatisticsResponse{
		Year:             now.Year(),
		MonthlyOrders:    fillMonths(monthly.counts),
		MostUsedProducts: toUsageDTOs(used.items),
		TopSalesProducts: toUsageDTOs(sales.items),
	}, nil
}

// fillMonths devuelve siempre los 12 meses; los que no vienen del repositorio quedan en 0.
func fillMonths(counts []repository.MonthlyCount) []dto.MonthlyOrdersDTO {
	out := make([]dto.MonthlyOrdersDTO, 12)
	for i := range out {
		out[i] = dto.MonthlyOrdersDTO{Month: i + 1, Label: monthLabels[i]}
	}
	for _, c := range counts {
		if c.Month >= 1 && c.Month <= 12 {
			out[c.Month-1].Count += c.Count
		}
	}
	return out
}

func toUsageDTOs(items []repository.ProductUsageResult) []dto.ProductUsageDTO {
	out := make([]dto.ProductUsageDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ProductUsageDTO{
			ProductID: it.ProductID,
			Codigo:    it.Codigo,
			Nombre:    it.Nombre,
			Total:     it.Total,
		})
	}
	return out
}
