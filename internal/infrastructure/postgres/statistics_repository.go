package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

// StatisticsRepo consultas de solo lectura para el resumen de estadísticas.
type StatisticsRepo struct {
	q Querier
}

// NewStatisticsRepository construye el adaptador de estadísticas.
func NewStatisticsRepository(q Querier) *StatisticsRepo {
	return &StatisticsRepo{q: q}
}

// CountExecutedOrdersByMonth cuenta órdenes Ejecutada por mes de real_end_date dentro de [from, to].
func (r *StatisticsRepo) CountExecutedOrdersByMonth(ctx context.Context, from, to time.Time) ([]repository.MonthlyCount, error) {
	const query = `
	SELECT EXTRACT(MONTH FROM real_end_date)::INT AS month,
	       COUNT(*)::INT                          AS count
	FROM production_orders
	WHERE order_state = $1
	  AND real_end_date BETWEEN $2 AND $3
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.q.Query(ctx, query, string(entity.OrderStateEjecutada), from, to)
	if err != nil {
		return nil, fmt.Errorf("count executed orders by month: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthlyCount
	for rows.Next() {
		var m repository.MonthlyCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("scan monthly count: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMaterialConsumption suma lista de materiales × cantidad fabricada de todas las órdenes Ejecutada.
func (r *StatisticsRepo) GetMaterialConsumption(ctx context.Context, limit int) ([]repository.ProductUsageResult, error) {
	const query = `
	SELECT m.component_id,
	       p.codigo,
	       p.nombre,
	       SUM(m.quantity * o.cantidad_producto_fabricado) AS total
	FROM production_orders o
	JOIN product_materials m ON m.compound_id = o.product_id
	JOIN products          p ON p.id          = m.component_id
	WHERE o.order_state = $1
	GROUP BY m.component_id, p.codigo, p.nombre
	ORDER BY total DESC, p.codigo
	LIMIT $2`

	return r.usage(ctx, "material consumption", query, string(entity.OrderStateEjecutada), limit)
}

// GetTopSales suma las cantidades de las filas VENTA del historial por producto.
func (r *StatisticsRepo) GetTopSales(ctx context.Context, limit int) ([]repository.ProductUsageResult, error) {
	const query = `
	SELECT h.product_id,
	       p.codigo,
	       p.nombre,
	       SUM(h.cantidad) AS total
	FROM historial h
	JOIN products p ON p.id = h.product_id
	WHERE h.action = $1
	GROUP BY h.product_id, p.codigo, p.nombre
	ORDER BY total DESC, p.codigo
	LIMIT $2`

	return r.usage(ctx, "top sales", query, string(entity.ActionVenta), limit)
}

func (r *StatisticsRepo) usage(ctx context.Context, name, query string, args ...any) ([]repository.ProductUsageResult, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()
	var out []repository.ProductUsageResult
	for rows.Next() {
		var u repository.ProductUsageResult
		if err := rows.Scan(&u.ProductID, &u.Codigo, &u.Nombre, &u.Total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
