package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
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

const testDescription = "Ajuste por conteo físico del almacén"

type fixture struct {
	ctx       context.Context
	uc        *inventory.StockMovementUseCase
	products  *memory.ProductRepository
	historial *memory.HistorialRepository
	clients   *memory.ClientRepository
	providers *memory.ProviderRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		historial: memory.NewHistorialRepository(store),
		clients:   memory.NewClientRepository(store),
		providers: memory.NewProviderRepository(store),
	}
	f.uc = inventory.NewStockMovementUseCase(
		memory.NewTxRunner(store),
		f.clients, f.providers,
		func() time.Time { return testNow },
		logger.Nop(),
	)
	return f
}

func (f *fixture) addProduct(t *testing.T, existencia, reservada string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:                  uuid.New().String(),
		Codigo:              "TOR-01",
		Nombre:              "Tornillo",
		ProductType:         entity.ProductTypeInsumos,
		MeasureUnit:         "unidad",
		Existencia:          decimal.RequireFromString(existencia),
		ExistenciaReservada: decimal.RequireFromString(reservada),
	}
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) addClient(t *testing.T) *entity.Client {
	t.Helper()
	c := &entity.Client{ID: uuid.New().String(), NombreEmpresa: "Muebles del Centro", CiRif: "J-12345678-9"}
	require.NoError(t, f.clients.Create(f.ctx, c))
	return c
}

func (f *fixture) existencia(t *testing.T, p *entity.Product) string {
	t.Helper()
	cur, err := f.products.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	return cur.Existencia.String()
}

func (f *fixture) historialCount(t *testing.T, p *entity.Product) int {
	t.Helper()
	_, total, err := f.historial.List(f.ctx, repository.HistorialFilter{ProductID: p.ID})
	require.NoError(t, err)
	return total
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Charge
// ──────────────────────────────────────────────────────────────────────────────

func TestCharge_SumaExistenciaYRegistraHistorial(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")

	out, err := f.uc.Charge(f.ctx, p.ID, dto.ChargeRequest{Quantity: qty("5.5"), Action: "INGRESO", Description: testDescription})
	require.NoError(t, err)
	assert.Equal(t, "15.5", out.Product.Existencia.String())
	assert.Equal(t, "INGRESO", out.Historial.ActionKey)
	assert.Equal(t, "5.5", out.Historial.Cantidad.String())
	assert.Equal(t, testNow, out.Historial.CreatedAt)
	assert.Equal(t, 1, f.historialCount(t, p))
}

func TestCharge_ConProveedor(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "0", "0")
	prov := &entity.Provider{ID: uuid.New().String(), EnterpriseName: "Ferretería Norte", CiRif: "J-98765432-1"}
	require.NoError(t, f.providers.Create(f.ctx, prov))

	out, err := f.uc.Charge(f.ctx, p.ID, dto.ChargeRequest{Quantity: qty("3"), Action: "ingreso", Description: testDescription, ProviderID: &prov.ID})
	require.NoError(t, err)
	require.NotNil(t, out.Historial.ProviderID)
	assert.Equal(t, prov.ID, *out.Historial.ProviderID)

	missing := uuid.New().String()
	_, err = f.uc.Charge(f.ctx, p.ID, dto.ChargeRequest{Quantity: qty("3"), Action: "INGRESO", Description: testDescription, ProviderID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCharge_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")

	cases := []struct {
		name string
		in   dto.ChargeRequest
		want error
	}{
		{"cantidad cero", dto.ChargeRequest{Quantity: decimal.Zero, Action: "INGRESO", Description: testDescription}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.ChargeRequest{Quantity: qty("-1"), Action: "INGRESO", Description: testDescription}, domain.ErrInvalidInput},
		{"más de cuatro decimales", dto.ChargeRequest{Quantity: qty("0.00001"), Action: "INGRESO", Description: testDescription}, domain.ErrInvalidInput},
		{"acción de descarga", dto.ChargeRequest{Quantity: qty("1"), Action: "VENTA", Description: testDescription}, domain.ErrInvalidInput},
		{"acción desconocida", dto.ChargeRequest{Quantity: qty("1"), Action: "REGALO", Description: testDescription}, domain.ErrInvalidInput},
		{"descripción corta", dto.ChargeRequest{Quantity: qty("1"), Action: "INGRESO", Description: "corta"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Charge(f.ctx, p.ID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, "10", f.existencia(t, p))
	assert.Zero(t, f.historialCount(t, p))
}

func TestCharge_CuatroDecimales(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "1", "0")

	_, err := f.uc.Charge(f.ctx, p.ID, dto.ChargeRequest{Quantity: qty("0.2500"), Action: "INGRESO", Description: testDescription})
	require.NoError(t, err)
	_, err = f.uc.Charge(f.ctx, p.ID, dto.ChargeRequest{Quantity: qty("0.00010"), Action: "VARIOS", Description: testDescription})
	require.NoError(t, err, "ceros a la derecha no cuentan como decimales")
	assert.Equal(t, "1.2501", f.existencia(t, p))

	_, err = f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("1.00005"), Action: "EGRESO", Description: testDescription})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "1.2501", f.existencia(t, p))
}

func TestCharge_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Charge(f.ctx, uuid.New().String(), dto.ChargeRequest{Quantity: qty("1"), Action: "INGRESO", Description: testDescription})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Discharge
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 5: VENTA sin cliente falla y no modifica stock ni historial.
func TestDischarge_VentaSinCliente(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")

	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("2"), Action: "VENTA", Description: testDescription})
	require.ErrorIs(t, err, domain.ErrMissingClient)
	assert.Equal(t, "10", f.existencia(t, p))
	assert.Zero(t, f.historialCount(t, p))
}

func TestDischarge_VentaConCliente(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")
	c := f.addClient(t)

	out, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("2"), Action: "VENTA", Description: testDescription, ClientID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, "8", out.Product.Existencia.String())
	assert.Equal(t, "VENTA", out.Historial.ActionKey)
	require.NotNil(t, out.Historial.ClientID)
	assert.Equal(t, c.ID, *out.Historial.ClientID)
}

func TestDischarge_HastaCero(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")

	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("10"), Action: "EGRESO", Description: testDescription})
	require.NoError(t, err)
	assert.Equal(t, "0", f.existencia(t, p))
}

func TestDischarge_MasQueLaExistencia(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")

	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("10.01"), Action: "EGRESO", Description: testDescription})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "TOR-01 - Tornillo")
	assert.Equal(t, "10", f.existencia(t, p))
	assert.Zero(t, f.historialCount(t, p))
}

// El stock reservado por órdenes abiertas no se puede descargar.
func TestDischarge_NoTocaLoReservado(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "100", "80")

	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("21"), Action: "VARIOS", Description: testDescription})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("20"), Action: "VARIOS", Description: testDescription})
	require.NoError(t, err)
	assert.Equal(t, "80", out.Product.Existencia.String())
	assert.Equal(t, "80", out.Product.ExistenciaReservada.String())
}

func TestDischarge_AccionDeCarga(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")
	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("1"), Action: "INGRESO", Description: testDescription})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDischarge_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "10", "0")
	missing := uuid.New().String()
	_, err := f.uc.Discharge(f.ctx, p.ID, dto.DischargeRequest{Quantity: qty("1"), Action: "VENTA", Description: testDescription, ClientID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Acciones
// ──────────────────────────────────────────────────────────────────────────────

func TestActions(t *testing.T) {
	f := newFixture(t)

	charge := f.uc.ChargeActions()
	require.Len(t, charge, 2)
	assert.Equal(t, dto.ActionResponse{Key: "INGRESO", Value: "ingreso"}, charge[0])
	assert.Equal(t, "VARIOS", charge[1].Key)

	discharge := f.uc.DischargeActions()
	keys := make([]string, 0, len(discharge))
	for _, a := range discharge {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"EGRESO", "VENTA", "VARIOS"}, keys)
}
