package production_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

const (
	testEndDate      = "2025-03-20"
	testResponsables = "Equipo de ensamblaje turno A"
)

type fixture struct {
	ctx       context.Context
	uc        *production.OrderUseCase
	products  *memory.ProductRepository
	orders    *memory.ProductionOrderRepository
	historial *memory.HistorialRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		orders:    memory.NewProductionOrderRepository(store),
		historial: memory.NewHistorialRepository(store),
	}
	f.uc = production.NewOrderUseCase(
		memory.NewTxRunner(store),
		f.products, f.orders, f.historial,
		func() time.Time { return testNow },
		logger.Nop(),
	)
	return f
}

func (f *fixture) addProduct(t *testing.T, codigo, existencia string, pt entity.ProductType) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Codigo:      codigo,
		Nombre:      "Producto " + codigo,
		ProductType: pt,
		MeasureUnit: "unidad",
		Existencia:  decimal.RequireFromString(existencia),
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) setBOM(t *testing.T, compound *entity.Product, items map[*entity.Product]string) {
	t.Helper()
	var list []entity.MaterialItem
	for comp, qty := range items {
		list = append(list, entity.MaterialItem{ComponentID: comp.ID, Quantity: decimal.RequireFromString(qty)})
	}
	require.NoError(t, f.products.ReplaceMaterials(f.ctx, compound.ID, list))
}

// stock devuelve existencia y reservada actuales.
func (f *fixture) stock(t *testing.T, p *entity.Product) (string, string) {
	t.Helper()
	cur, err := f.products.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	return cur.Existencia.String(), cur.ExistenciaReservada.String()
}

func (f *fixture) historialOf(t *testing.T, orderID string) []*entity.Historial {
	t.Helper()
	rows, _, err := f.historial.List(f.ctx, repository.HistorialFilter{ProductionOrderID: orderID})
	require.NoError(t, err)
	return rows
}

func (f *fixture) create(t *testing.T, product *entity.Product, qty int) *dto.ProductionOrderResponse {
	t.Helper()
	o, err := f.uc.Create(f.ctx, dto.CreateProductionOrderRequest{
		ProductID:                 product.ID,
		CantidadProductoFabricado: qty,
		EndDate:                   testEndDate,
		Responsables:              testResponsables,
	})
	require.NoError(t, err)
	return o
}

// mesa: 2 tornillos por unidad, tornillo con existencia 100.
func (f *fixture) mesaConTornillos(t *testing.T) (mesa, tornillo *entity.Product) {
	t.Helper()
	tornillo = f.addProduct(t, "TOR-01", "100", entity.ProductTypeInsumos)
	mesa = f.addProduct(t, "MESA-01", "0", entity.ProductTypeSencillos)
	f.setBOM(t, mesa, map[*entity.Product]string{tornillo: "2"})
	return mesa, tornillo
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de reserva
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 1: orden de 40 mesas reserva 80 tornillos.
func TestCreate_ReservaMateriales(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)

	o := f.create(t, mesa, 40)

	assert.Equal(t, string(entity.OrderStatePorIniciar), o.OrderState)
	assert.Equal(t, "MESA-01", o.ProductCodigo)
	assert.Nil(t, o.StartDate)
	ex, res := f.stock(t, tornillo)
	assert.Equal(t, "100", ex)
	assert.Equal(t, "80", res)
	assert.Empty(t, f.historialOf(t, o.ID), "la creación no escribe historial")
}

// Escenario 2: una segunda orden que excede la existencia falla y no cambia la reserva.
func TestCreate_SegundaOrdenSinStock(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	f.create(t, mesa, 40)

	_, err := f.uc.Create(f.ctx, dto.CreateProductionOrderRequest{
		ProductID:                 mesa.ID,
		CantidadProductoFabricado: 15,
		EndDate:                   testEndDate,
		Responsables:              testResponsables,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "TOR-01 - Producto TOR-01")

	_, res := f.stock(t, tornillo)
	assert.Equal(t, "80", res)
	_, total, err := f.orders.List(f.ctx, repository.ProductionOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "la orden rechazada no se guarda")
}

// Reservar exactamente hasta la existencia es válido.
func TestCreate_ReservaHastaExistencia(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	f.create(t, mesa, 50)
	ex, res := f.stock(t, tornillo)
	assert.Equal(t, ex, res)
}

// Si un componente no alcanza, ningún otro queda reservado.
func TestCreate_AtomicaConVariosComponentes(t *testing.T) {
	f := newFixture(t)
	tornillo := f.addProduct(t, "TOR-01", "100", entity.ProductTypeInsumos)
	tabla := f.addProduct(t, "TAB-01", "5", entity.ProductTypeInsumos)
	mesa := f.addProduct(t, "MESA-01", "0", entity.ProductTypeSencillos)
	f.setBOM(t, mesa, map[*entity.Product]string{tornillo: "2", tabla: "1"})

	_, err := f.uc.Create(f.ctx, dto.CreateProductionOrderRequest{
		ProductID:                 mesa.ID,
		CantidadProductoFabricado: 10,
		EndDate:                   testEndDate,
		Responsables:              testResponsables,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, res := f.stock(t, tornillo)
	assert.Equal(t, "0", res)
	_, res = f.stock(t, tabla)
	assert.Equal(t, "0", res)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 3: Por iniciar → En proceso → Ejecutada consume materiales e ingresa el producto.
func TestChangeState_EjecutarOrden(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 40)

	started, err := f.uc.ChangeState(f.ctx, o.ID, "EnProceso")
	require.NoError(t, err)
	require.NotNil(t, started.StartDate)
	assert.Equal(t, testNow, *started.StartDate)
	_, res := f.stock(t, tornillo)
	assert.Equal(t, "80", res, "iniciar la orden no mueve stock")

	done, err := f.uc.ChangeState(f.ctx, o.ID, "Ejecutada")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStateEjecutada), done.OrderState)
	require.NotNil(t, done.RealEndDate)

	ex, res := f.stock(t, tornillo)
	assert.Equal(t, "20", ex)
	assert.Equal(t, "0", res)
	ex, _ = f.stock(t, mesa)
	assert.Equal(t, "40", ex)

	rows := f.historialOf(t, o.ID)
	require.Len(t, rows, 3)
	byAction := make(map[entity.HistorialAction]*entity.Historial)
	for _, h := range rows {
		byAction[h.Action] = h
	}
	gasto := byAction[entity.ActionGastoDeProduccion]
	require.NotNil(t, gasto)
	assert.Equal(t, "80", gasto.Cantidad.String())
	assert.Equal(t, tornillo.ID, *gasto.ProductID)
	ingreso := byAction[entity.ActionIngresoPorProduccion]
	require.NotNil(t, ingreso)
	assert.Equal(t, "40", ingreso.Cantidad.String())
	assert.Equal(t, mesa.ID, *ingreso.ProductID)
	marca := byAction[entity.ActionOrdenProduccion]
	require.NotNil(t, marca)
	assert.True(t, marca.Cantidad.IsZero())
}

// Con 3 materiales distintos: 3 GASTODEPRODUCCION + 1 INGRESOPORPRODUCCION + 1 ORDENPRODUCCION.
func TestChangeState_EjecutarConTresMateriales(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "A", "10", entity.ProductTypeInsumos)
	b := f.addProduct(t, "B", "10", entity.ProductTypeInsumos)
	c := f.addProduct(t, "C", "10", entity.ProductTypeInsumos)
	silla := f.addProduct(t, "SILLA", "0", entity.ProductTypeSencillos)
	f.setBOM(t, silla, map[*entity.Product]string{a: "1", b: "0.5", c: "2"})

	o := f.create(t, silla, 4)
	_, err := f.uc.ChangeState(f.ctx, o.ID, "EnProceso")
	require.NoError(t, err)
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Ejecutada")
	require.NoError(t, err)

	counts := make(map[entity.HistorialAction]int)
	for _, h := range f.historialOf(t, o.ID) {
		counts[h.Action]++
	}
	assert.Equal(t, 3, counts[entity.ActionGastoDeProduccion])
	assert.Equal(t, 1, counts[entity.ActionIngresoPorProduccion])
	assert.Equal(t, 1, counts[entity.ActionOrdenProduccion])

	ex, res := f.stock(t, b)
	assert.Equal(t, "8", ex)
	assert.Equal(t, "0", res)
}

// Escenario 4: cancelar libera la reserva y no toca la existencia.
func TestChangeState_CancelarLiberaReserva(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 40)

	_, err := f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	require.NoError(t, err)

	ex, res := f.stock(t, tornillo)
	assert.Equal(t, "100", ex)
	assert.Equal(t, "0", res)

	rows := f.historialOf(t, o.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.ActionOrdenProduccion, rows[0].Action)
	assert.True(t, rows[0].Cantidad.IsZero())
}

func TestChangeState_TransicionesInvalidasNoAplicanDosVeces(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 10)

	_, err := f.uc.ChangeState(f.ctx, o.ID, "Ejecutada")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "Por iniciar → Ejecutada no es legal")

	_, err = f.uc.ChangeState(f.ctx, o.ID, "EnProceso")
	require.NoError(t, err)
	_, err = f.uc.ChangeState(f.ctx, o.ID, "EnProceso")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "En proceso no se puede cancelar")

	_, err = f.uc.ChangeState(f.ctx, o.ID, "Ejecutada")
	require.NoError(t, err)
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Ejecutada")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	ex, res := f.stock(t, tornillo)
	assert.Equal(t, "80", ex, "la segunda ejecución no consume otra vez")
	assert.Equal(t, "0", res)
	assert.Len(t, f.historialOf(t, o.ID), 3)
}

func TestChangeState_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	o := f.create(t, mesa, 1)
	_, err := f.uc.ChangeState(f.ctx, o.ID, "Pausada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeState_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ChangeState(f.ctx, uuid.New().String(), "EnProceso")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 6: bajar la cantidad de 40 a 10 deja la reserva en 20 (no 100).
func TestUpdate_RecalculaReservaPorDiferencia(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 40)

	qty := 10
	updated, err := f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{CantidadProductoFabricado: &qty})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.CantidadProductoFabricado)
	_, res := f.stock(t, tornillo)
	assert.Equal(t, "20", res)

	// Crear, actualizar y cancelar deja la reserva como estaba al principio.
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	require.NoError(t, err)
	_, res = f.stock(t, tornillo)
	assert.Equal(t, "0", res)
}

func TestUpdate_AumentoSinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 40)

	qty := 51
	_, err := f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{CantidadProductoFabricado: &qty})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, res := f.stock(t, tornillo)
	assert.Equal(t, "80", res)
	got, err := f.uc.GetByID(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.CantidadProductoFabricado)
}

func TestUpdate_SoloEnPorIniciar(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	o := f.create(t, mesa, 5)
	_, err := f.uc.ChangeState(f.ctx, o.ID, "EnProceso")
	require.NoError(t, err)

	resp := "Equipo de pintura turno B"
	_, err = f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{Responsables: &resp})
	assert.ErrorIs(t, err, domain.ErrOrderNotEditable)
}

func TestUpdate_CambiaFechaYResponsables(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)
	o := f.create(t, mesa, 5)

	end := "2025-04-01"
	resp := "Equipo de pintura turno B"
	updated, err := f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{EndDate: &end, Responsables: &resp})
	require.NoError(t, err)
	assert.Equal(t, resp, updated.Responsables)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), updated.EndDate)
	_, res := f.stock(t, tornillo)
	assert.Equal(t, "10", res)
}

func TestUpdate_ProductoEliminado(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	o := f.create(t, mesa, 5)
	require.NoError(t, f.products.SoftDelete(f.ctx, mesa.ID))

	qty := 6
	_, err := f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{CantidadProductoFabricado: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueos: la fila del producto a fabricar se toma antes de leer su lista de materiales
// ──────────────────────────────────────────────────────────────────────────────

// lockTrace registra los bloqueos de filas y las lecturas de lista de materiales.
type lockTrace struct {
	repository.ProductRepository
	calls *[]string
}

func (r lockTrace) GetForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	*r.calls = append(*r.calls, "lock:"+strings.Join(ids, ","))
	return r.ProductRepository.GetForUpdate(ctx, ids)
}

func (r lockTrace) GetMaterials(ctx context.Context, id string) ([]entity.MaterialItem, error) {
	*r.calls = append(*r.calls, "materials:"+id)
	return r.ProductRepository.GetMaterials(ctx, id)
}

type tracingTxRunner struct {
	inner production.TxRunner
	calls *[]string
}

func (r tracingTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.ProductionOrderRepository,
	historialRepo repository.HistorialRepository,
) error) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, o repository.ProductionOrderRepository, h repository.HistorialRepository) error {
		return fn(lockTrace{ProductRepository: p, calls: r.calls}, o, h)
	})
}

func TestBloqueaProductoAntesDeLeerMateriales(t *testing.T) {
	store := memory.NewStore()
	f := &fixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		orders:    memory.NewProductionOrderRepository(store),
		historial: memory.NewHistorialRepository(store),
	}
	var calls []string
	f.uc = production.NewOrderUseCase(
		tracingTxRunner{inner: memory.NewTxRunner(store), calls: &calls},
		f.products, f.orders, f.historial,
		func() time.Time { return testNow },
		logger.Nop(),
	)
	mesa, tornillo := f.mesaConTornillos(t)
	want := []string{"lock:" + mesa.ID, "materials:" + mesa.ID, "lock:" + tornillo.ID}

	o := f.create(t, mesa, 5)
	assert.Equal(t, want, calls, "crear")

	calls = nil
	qty := 8
	_, err := f.uc.Update(f.ctx, o.ID, dto.UpdateProductionOrderRequest{CantidadProductoFabricado: &qty})
	require.NoError(t, err)
	assert.Equal(t, want, calls, "cambiar cantidad")

	calls = nil
	_, err = f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	require.NoError(t, err)
	assert.Equal(t, want, calls, "cancelar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	sinMateriales := f.addProduct(t, "SUELTO", "0", entity.ProductTypeInsumos)

	cases := []struct {
		name string
		in   dto.CreateProductionOrderRequest
		want error
	}{
		{"cantidad cero", dto.CreateProductionOrderRequest{ProductID: mesa.ID, CantidadProductoFabricado: 0, EndDate: testEndDate, Responsables: testResponsables}, domain.ErrInvalidInput},
		{"fecha de hoy", dto.CreateProductionOrderRequest{ProductID: mesa.ID, CantidadProductoFabricado: 1, EndDate: "2025-03-10", Responsables: testResponsables}, domain.ErrInvalidInput},
		{"fecha pasada", dto.CreateProductionOrderRequest{ProductID: mesa.ID, CantidadProductoFabricado: 1, EndDate: "2025-03-01", Responsables: testResponsables}, domain.ErrInvalidInput},
		{"fecha mal formada", dto.CreateProductionOrderRequest{ProductID: mesa.ID, CantidadProductoFabricado: 1, EndDate: "20/03/2025", Responsables: testResponsables}, domain.ErrInvalidInput},
		{"responsables corto", dto.CreateProductionOrderRequest{ProductID: mesa.ID, CantidadProductoFabricado: 1, EndDate: testEndDate, Responsables: "Ana"}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateProductionOrderRequest{ProductID: uuid.New().String(), CantidadProductoFabricado: 1, EndDate: testEndDate, Responsables: testResponsables}, domain.ErrNotFound},
		{"sin lista de materiales", dto.CreateProductionOrderRequest{ProductID: sinMateriales.ID, CantidadProductoFabricado: 1, EndDate: testEndDate, Responsables: testResponsables}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(f.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// Mañana ya es válido aunque falten menos de 24 horas.
func TestCreate_FechaManana(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	_, err := f.uc.Create(f.ctx, dto.CreateProductionOrderRequest{
		ProductID:                 mesa.ID,
		CantidadProductoFabricado: 1,
		EndDate:                   "2025-03-11",
		Responsables:              testResponsables,
	})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de reserva
// ──────────────────────────────────────────────────────────────────────────────

// La reserva del componente es siempre la suma de lo requerido por las órdenes abiertas.
func TestReservaIgualASumaDeOrdenesAbiertas(t *testing.T) {
	f := newFixture(t)
	mesa, tornillo := f.mesaConTornillos(t)

	o1 := f.create(t, mesa, 10) // 20
	o2 := f.create(t, mesa, 5)  // 10
	o3 := f.create(t, mesa, 7)  // 14
	qty := 3
	_, err := f.uc.Update(f.ctx, o2.ID, dto.UpdateProductionOrderRequest{CantidadProductoFabricado: &qty}) // 6
	require.NoError(t, err)
	_, err = f.uc.ChangeState(f.ctx, o1.ID, "Cancelada")
	require.NoError(t, err)
	_, err = f.uc.ChangeState(f.ctx, o3.ID, "EnProceso")
	require.NoError(t, err)

	_, res := f.stock(t, tornillo)
	assert.Equal(t, "20", res, "abiertas: o2 (6) + o3 (14)")

	_, err = f.uc.ChangeState(f.ctx, o3.ID, "Ejecutada")
	require.NoError(t, err)
	ex, res := f.stock(t, tornillo)
	assert.Equal(t, "6", res)
	assert.Equal(t, "86", ex)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstadoYNombre(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	o1 := f.create(t, mesa, 1)
	f.create(t, mesa, 2)
	_, err := f.uc.ChangeState(f.ctx, o1.ID, "EnProceso")
	require.NoError(t, err)

	list, err := f.uc.List(f.ctx, dto.ProductionOrderListQuery{OrderState: "EnProceso"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, o1.ID, list.Items[0].ID)
	assert.Equal(t, "Producto MESA-01", list.Items[0].ProductNombre)

	list, err = f.uc.List(f.ctx, dto.ProductionOrderListQuery{ProductName: "mesa"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)

	list, err = f.uc.List(f.ctx, dto.ProductionOrderListQuery{StartDate: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	_, err = f.uc.List(f.ctx, dto.ProductionOrderListQuery{OrderState: "Pausada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetByID(f.ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistorial_DeLaOrden(t *testing.T) {
	f := newFixture(t)
	mesa, _ := f.mesaConTornillos(t)
	o := f.create(t, mesa, 2)
	_, err := f.uc.ChangeState(f.ctx, o.ID, "Cancelada")
	require.NoError(t, err)

	h, err := f.uc.Historial(f.ctx, o.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, h.Items, 1)
	assert.Equal(t, "ORDENPRODUCCION", h.Items[0].ActionKey)

	_, err = f.uc.Historial(f.ctx, uuid.New().String(), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
