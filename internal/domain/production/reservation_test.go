package production_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func product(id, codigo string, existencia, reservada string) *entity.Product {
	return &entity.Product{
		ID:                  id,
		Codigo:              codigo,
		Nombre:              "Producto " + codigo,
		ProductType:         entity.ProductTypeInsumos,
		Existencia:          dec(existencia),
		ExistenciaReservada: dec(reservada),
	}
}

// Mesa: 2 tornillos y 0.5 de tabla por unidad.
func mesaBOM() []entity.MaterialItem {
	return []entity.MaterialItem{
		{CompoundID: "mesa", ComponentID: "tornillo", Quantity: dec("2")},
		{CompoundID: "mesa", ComponentID: "tabla", Quantity: dec("0.5")},
	}
}

func byID(adjs []production.ComponentAdjustment) map[string]production.ComponentAdjustment {
	m := make(map[string]production.ComponentAdjustment, len(adjs))
	for _, a := range adjs {
		m[a.ProductID] = a
	}
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Requirements
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirements_AcumulaComponentesRepetidos(t *testing.T) {
	bom := []entity.MaterialItem{
		{ComponentID: "a", Quantity: dec("1.5")},
		{ComponentID: "b", Quantity: dec("1")},
		{ComponentID: "a", Quantity: dec("0.5")},
	}
	reqs := production.Requirements(bom, 10)
	require.Len(t, reqs, 2)
	assert.Equal(t, "a", reqs[0].ProductID)
	assert.True(t, reqs[0].Quantity.Equal(dec("20")))
	assert.Equal(t, "b", reqs[1].ProductID)
	assert.True(t, reqs[1].Quantity.Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: tornillo existencia 100, se reservan 2 × 40 = 80.
func TestReserve_ReservaRequeridoPorComponente(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "0"), product("tabla", "TB-1", "50", "0")}
	adjs, err := production.Reserve(mesaBOM(), comps, 40)
	require.NoError(t, err)
	m := byID(adjs)
	assert.True(t, m["tornillo"].DeltaReservada.Equal(dec("80")))
	assert.True(t, m["tornillo"].DeltaExistencia.IsZero())
	assert.True(t, m["tabla"].DeltaReservada.Equal(dec("20")))
	assert.Empty(t, m["tornillo"].Action, "la reserva no genera historial")
	// Los productos no se modifican.
	assert.True(t, comps[0].ExistenciaReservada.IsZero())
}

func TestReserve_ExactamenteHastaExistencia(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "20"), product("tabla", "TB-1", "20", "0")}
	_, err := production.Reserve(mesaBOM(), comps, 40)
	require.NoError(t, err, "reservar hasta igualar la existencia debe ser válido")
}

func TestReserve_SuperaExistenciaPorEpsilon(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "0"), product("tabla", "TB-1", "19.999", "0")}
	_, err := production.Reserve(mesaBOM(), comps, 40)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "TB-1 - Producto TB-1")
}

// Escenario: con 80 ya reservados, otra orden de 15 unidades (30 tornillos) excede 100.
func TestReserve_SegundaOrdenExcedeExistencia(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "80"), product("tabla", "TB-1", "50", "0")}
	_, err := production.Reserve(mesaBOM(), comps, 15)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReserve_ComponenteInexistente(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "0")}
	_, err := production.Reserve(mesaBOM(), comps, 1)
	require.ErrorIs(t, err, domain.ErrMaterialsNotFound)
	assert.Contains(t, err.Error(), "tabla")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rebook
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: orden de 40 pasa a 10; la reserva del tornillo baja de 80 a 20 (delta -60).
func TestRebook_ReduceCantidad(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "80"), product("tabla", "TB-1", "50", "20")}
	adjs, err := production.Rebook(mesaBOM(), comps, 40, 10)
	require.NoError(t, err)
	m := byID(adjs)
	assert.True(t, m["tornillo"].DeltaReservada.Equal(dec("-60")))
	assert.True(t, m["tornillo"].Quantity.Equal(dec("60")))
	assert.True(t, m["tabla"].DeltaReservada.Equal(dec("-15")))
}

func TestRebook_AumentaCantidadSinExistencia(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "80"), product("tabla", "TB-1", "50", "20")}
	_, err := production.Rebook(mesaBOM(), comps, 40, 51)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRebook_MismaCantidadSinAjustes(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "80"), product("tabla", "TB-1", "50", "20")}
	adjs, err := production.Rebook(mesaBOM(), comps, 40, 40)
	require.NoError(t, err)
	assert.Empty(t, adjs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Release / Consume
// ──────────────────────────────────────────────────────────────────────────────

func TestRelease_DevuelveReserva(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "100", "80")}
	adjs := production.Release(mesaBOM(), comps, 40)
	m := byID(adjs)
	require.Len(t, adjs, 2)
	assert.True(t, m["tornillo"].DeltaReservada.Equal(dec("-80")))
	assert.Equal(t, "T-1", m["tornillo"].Codigo)
	assert.Empty(t, m["tabla"].Codigo, "componente no cargado solo lleva el id")
}

// Escenario: al ejecutar la orden el tornillo queda en existencia 20, reservada 0.
func TestConsume_GastaReservaYExistencia(t *testing.T) {
	tornillo := product("tornillo", "T-1", "100", "80")
	tabla := product("tabla", "TB-1", "50", "20")
	adjs, err := production.Consume(mesaBOM(), []*entity.Product{tornillo, tabla}, 40)
	require.NoError(t, err)
	m := byID(adjs)
	a := m["tornillo"]
	assert.Equal(t, entity.ActionGastoDeProduccion, a.Action)
	assert.True(t, a.Quantity.Equal(dec("80")))
	require.NoError(t, tornillo.ApplyAdjustment(a.DeltaExistencia, a.DeltaReservada))
	assert.True(t, tornillo.Existencia.Equal(dec("20")))
	assert.True(t, tornillo.ExistenciaReservada.IsZero())
}

func TestConsume_ExistenciaAgotadaPorFuera(t *testing.T) {
	comps := []*entity.Product{product("tornillo", "T-1", "50", "50"), product("tabla", "TB-1", "50", "20")}
	_, err := production.Consume(mesaBOM(), comps, 40)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "T-1")
}
