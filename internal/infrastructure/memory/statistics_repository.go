package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepository)(nil)

// StatisticsRepository consultas de estadísticas sobre el almacén en memoria.
type StatisticsRepository struct {
	store *Store
}

// NewStatisticsRepository construye el repositorio sobre el almacén.
func NewStatisticsRepository(store *Store) *StatisticsRepository {
	return &StatisticsRepository{store: store}
}

func (r *StatisticsRepository) CountExecutedOrdersByMonth(_ context.Context, from, to time.Time) ([]repository.MonthlyCount, error) {
	defer r.store.guard(false)()
	counts := make(map[int]int)
	for _, o := range r.store.orders {
		if o.OrderState != entity.OrderStateEjecutada || o.RealEndDate == nil {
			continue
		}
		d := *o.RealEndDate
		if d.Before(from) || d.After(to) {
			continue
		}
		counts[int(d.Month())]++
	}
	out := make([]repository.MonthlyCount, 0, len(counts))
	for m := 1; m <= 12; m++ {
		if n, ok := counts[m]; ok {
			out = append(out, repository.MonthlyCount{Month: m, Count: n})
		}
	}
	return out, nil
}

func (r *StatisticsRepository) GetMaterialConsumption(_ context.Context, limit int) ([]repository.ProductUsageResult, error) {
	defer r.store.guard(false)()
	totals := make(map[string]decimal.Decimal)
	for _, o := range r.store.orders {
		if o.OrderState != entity.OrderStateEjecutada {
			continue
		}
		units := decimal.NewFromInt(int64(o.CantidadProductoFabricado))
		for _, m := range r.store.materials[o.ProductID] {
			totals[m.ComponentID] = totals[m.ComponentID].Add(m.Quantity.Mul(units))
		}
	}
	return r.rank(totals, limit), nil
}

func (r *StatisticsRepository) GetTopSales(_ context.Context, limit int) ([]repository.ProductUsageResult, error) {
	defer r.store.guard(false)()
	totals := make(map[string]decimal.Decimal)
	for _, h := range r.store.historial {
		if h.Action != entity.ActionVenta || h.ProductID == nil {
			continue
		}
		totals[*h.ProductID] = totals[*h.ProductID].Add(h.Cantidad)
	}
	return r.rank(totals, limit), nil
}

// rank ordena de mayor a menor (empate por codigo) y corta en limit.
func (r *StatisticsRepository) rank(totals map[string]decimal.Decimal, limit int) []repository.ProductUsageResult {
	out := make([]repository.ProductUsageResult, 0, len(totals))
	for id, total := range totals {
		res := repository.ProductUsageResult{ProductID: id, Total: total}
		if p, ok := r.store.products[id]; ok {
			res.Codigo, res.Nombre = p.Codigo, p.Nombre
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Codigo < out[j].Codigo
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
