package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type seed struct {
	ctx       context.Context
	products  *memory.ProductRepository
	orders    *memory.ProductionOrderRepository
	historial *memory.HistorialRepository
}

func (s seed) product(t *testing.T, codigo string) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: uuid.New().String(), Codigo: codigo, Nombre: "Producto " + codigo, ProductType: entity.ProductTypeInsumos}
	require.NoError(t, s.products.Create(s.ctx, p))
	return p
}

func (s seed) executed(t *testing.T, product *entity.Product, qty int, realEnd time.Time) {
	t.Helper()
	require.NoError(t, s.orders.Create(s.ctx, &entity.ProductionOrder{
		ID:                        uuid.New().String(),
		ProductID:                 product.ID,
		CantidadProductoFabricado: qty,
		OrderState:                entity.OrderStateEjecutada,
		EndDate:                   realEnd,
		RealEndDate:               &realEnd,
		Responsables:              "Equipo de ensamblaje",
		CreatedAt:                 realEnd,
	}))
}

func (s seed) sale(t *testing.T, product *entity.Product, qty string) {
	t.Helper()
	require.NoError(t, s.historial.Create(s.ctx, &entity.Historial{
		ID:        uuid.New().String(),
		Action:    entity.ActionVenta,
		Cantidad:  decimal.RequireFromString(qty),
		ProductID: &product.ID,
		CreatedAt: testNow,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStatistics
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStatistics(t *testing.T) {
	store := memory.NewStore()
	s := seed{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		orders:    memory.NewProductionOrderRepository(store),
		historial: memory.NewHistorialRepository(store),
	}
	tornillo := s.product(t, "TOR-01")
	tabla := s.product(t, "TAB-01")
	mesa := s.product(t, "MESA-01")
	require.NoError(t, s.products.ReplaceMaterials(s.ctx, mesa.ID, []entity.MaterialItem{
		{ComponentID: tornillo.ID, Quantity: decimal.NewFromInt(4)},
		{ComponentID: tabla.ID, Quantity: decimal.NewFromInt(1)},
	}))

	s.executed(t, mesa, 10, time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC))
	s.executed(t, mesa, 5, time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC))
	s.executed(t, mesa, 1, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	s.executed(t, mesa, 2, time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)) // año anterior
	s.sale(t, mesa, "3")
	s.sale(t, mesa, "2")
	s.sale(t, tabla, "7")

	uc := analytics.NewStatisticsUseCase(memory.NewStatisticsRepository(store), 0, func() time.Time { return testNow })
	out, err := uc.GetStatistics(s.ctx)
	require.NoError(t, err)

	assert.Equal(t, 2025, out.Year)
	require.Len(t, out.MonthlyOrders, 12)
	assert.Equal(t, "Ene", out.MonthlyOrders[0].Label)
	assert.Zero(t, out.MonthlyOrders[0].Count)
	assert.Equal(t, 2, out.MonthlyOrders[1].Count)
	assert.Equal(t, 1, out.MonthlyOrders[4].Count)
	assert.Equal(t, "Dic", out.MonthlyOrders[11].Label)

	// Consumo: BOM × cantidad de todas las órdenes ejecutadas.
	require.Len(t, out.MostUsedProducts, 2)
	assert.Equal(t, "TOR-01", out.MostUsedProducts[0].Codigo)
	assert.Equal(t, "72", out.MostUsedProducts[0].Total.String())
	assert.Equal(t, "18", out.MostUsedProducts[1].Total.String())

	require.Len(t, out.TopSalesProducts, 2)
	assert.Equal(t, "TAB-01", out.TopSalesProducts[0].Codigo)
	assert.Equal(t, "7", out.TopSalesProducts[0].Total.String())
	assert.Equal(t, "5", out.TopSalesProducts[1].Total.String())
}

func TestGetStatistics_SinDatos(t *testing.T) {
	uc := analytics.NewStatisticsUseCase(memory.NewStatisticsRepository(memory.NewStore()), 3, func() time.Time { return testNow })
	out, err := uc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.MonthlyOrders, 12)
	assert.Empty(t, out.MostUsedProducts)
	assert.Empty(t, out.TopSalesProducts)
}

type failingStats struct {
	repository.StatisticsRepository
	err error
}

func (f failingStats) CountExecutedOrdersByMonth(context.Context, time.Time, time.Time) ([]repository.MonthlyCount, error) {
	return nil, nil
}

func (f failingStats) GetMaterialConsumption(context.Context, int) ([]repository.ProductUsageResult, error) {
	return nil, nil
}

func (f failingStats) GetTopSales(context.Context, int) ([]repository.ProductUsageResult, error) {
	return nil, f.err
}

func TestGetStatistics_ErrorDelRepositorio(t *testing.T) {
	boom := errors.New("conexión cerrada")
	uc := analytics.NewStatisticsUseCase(failingStats{err: boom}, 0, nil)
	_, err := uc.GetStatistics(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "más vendidos")
}
