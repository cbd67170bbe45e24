package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyCount cantidad de órdenes ejecutadas en un mes (1-12).
type MonthlyCount struct {
	Month int
	Count int
}

// ProductUsageResult total acumulado por producto (consumo de material o unidades vendidas).
type ProductUsageResult struct {
	ProductID string
	Codigo    string
	Nombre    string
	Total     decimal.Decimal
}

// StatisticsRepository define las consultas de lectura para estadísticas.
// Las implementaciones son read-only (no modifican datos).
type StatisticsRepository interface {
	// CountExecutedOrdersByMonth agrupa las órdenes Ejecutadas por mes de realEndDate dentro de [from, to].
	// Los meses sin órdenes pueden omitirse.
	CountExecutedOrdersByMonth(ctx context.Context, from, to time.Time) ([]MonthlyCount, error)

	// GetMaterialConsumption suma cantidad por unidad × cantidad fabricada de cada componente
	// sobre todas las órdenes Ejecutadas, de mayor a menor.
	GetMaterialConsumption(ctx context.Context, limit int) ([]ProductUsageResult, error)

	// GetTopSales suma la cantidad de los registros VENTA del historial por producto, de mayor a menor.
	GetTopSales(ctx context.Context, limit int) ([]ProductUsageResult, error)
}
