package usecase_test

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
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type productFixture struct {
	ctx       context.Context
	uc        *usecase.ProductUseCase
	products  *memory.ProductRepository
	orders    *memory.ProductionOrderRepository
	providers *memory.ProviderRepository
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	store := memory.NewStore()
	f := &productFixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		orders:    memory.NewProductionOrderRepository(store),
		providers: memory.NewProviderRepository(store),
	}
	f.uc = usecase.NewProductUseCase(memory.NewTxRunner(store), f.products, f.providers, logger.Nop())
	return f
}

func (f *productFixture) create(t *testing.T, codigo string, materials ...dto.MaterialItemRequest) *dto.ProductResponse {
	t.Helper()
	p, err := f.uc.Create(f.ctx, dto.CreateProductRequest{
		Codigo:      codigo,
		Nombre:      "Producto " + codigo,
		MeasureUnit: "unidad",
		Materials:   materials,
	})
	require.NoError(t, err)
	return p
}

func material(id, qty string) dto.MaterialItemRequest {
	return dto.MaterialItemRequest{ProductID: id, Quantity: decimal.RequireFromString(qty)}
}

func (f *productFixture) productType(t *testing.T, id string) string {
	t.Helper()
	p, err := f.uc.GetByID(f.ctx, id)
	require.NoError(t, err)
	return p.ProductType
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_TipoDerivado(t *testing.T) {
	f := newProductFixture(t)

	tornillo := f.create(t, "TOR-01")
	assert.Equal(t, "insumos", tornillo.ProductType)
	assert.True(t, tornillo.Existencia.IsZero())

	pata := f.create(t, "PATA-01", material(tornillo.ID, "4"))
	assert.Equal(t, "sencillos", pata.ProductType)
	require.Len(t, pata.Materials, 1)
	assert.Equal(t, "TOR-01", pata.Materials[0].Codigo)

	mesa := f.create(t, "MESA-01", material(pata.ID, "4"), material(tornillo.ID, "8"))
	assert.Equal(t, "compuestos", mesa.ProductType)
}

func TestProductCreate_CodigoDuplicado(t *testing.T) {
	f := newProductFixture(t)
	f.create(t, "TOR-01")
	_, err := f.uc.Create(f.ctx, dto.CreateProductRequest{Codigo: "TOR-01", Nombre: "Otro tornillo", MeasureUnit: "unidad"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_MaterialesInvalidos(t *testing.T) {
	f := newProductFixture(t)
	tornillo := f.create(t, "TOR-01")

	cases := []struct {
		name      string
		materials []dto.MaterialItemRequest
		want      error
	}{
		{"material inexistente", []dto.MaterialItemRequest{material(uuid.New().String(), "1")}, domain.ErrMaterialsNotFound},
		{"cantidad cero", []dto.MaterialItemRequest{material(tornillo.ID, "0")}, domain.ErrInvalidInput},
		{"cantidad con cinco decimales", []dto.MaterialItemRequest{material(tornillo.ID, "0.00001")}, domain.ErrInvalidInput},
		{"material repetido", []dto.MaterialItemRequest{material(tornillo.ID, "1"), material(tornillo.ID, "2")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(f.ctx, dto.CreateProductRequest{Codigo: "X-" + tc.name, Nombre: "Producto inválido", MeasureUnit: "unidad", Materials: tc.materials})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProductCreate_ProveedorInexistente(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.uc.Create(f.ctx, dto.CreateProductRequest{
		Codigo: "TOR-01", Nombre: "Tornillo", MeasureUnit: "unidad",
		ProviderIDs: []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_RechazaCiclos(t *testing.T) {
	f := newProductFixture(t)
	a := f.create(t, "A")
	b := f.create(t, "B", material(a.ID, "1"))
	c := f.create(t, "C", material(b.ID, "1"))

	loop := []dto.MaterialItemRequest{material(c.ID, "1")}
	_, err := f.uc.Update(f.ctx, a.ID, dto.UpdateProductRequest{Materials: &loop})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	self := []dto.MaterialItemRequest{material(a.ID, "1")}
	_, err = f.uc.Update(f.ctx, a.ID, dto.UpdateProductRequest{Materials: &self})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, "insumos", f.productType(t, a.ID), "el rechazo no modifica la lista")
}

// Cambiar el tipo de un componente se propaga a los productos que lo usan.
func TestProductUpdate_PropagaTipo(t *testing.T) {
	f := newProductFixture(t)
	tornillo := f.create(t, "TOR-01")
	pata := f.create(t, "PATA-01")
	mesa := f.create(t, "MESA-01", material(pata.ID, "4"))
	assert.Equal(t, "sencillos", mesa.ProductType)

	bom := []dto.MaterialItemRequest{material(tornillo.ID, "2")}
	updated, err := f.uc.Update(f.ctx, pata.ID, dto.UpdateProductRequest{Materials: &bom})
	require.NoError(t, err)
	assert.Equal(t, "sencillos", updated.ProductType)
	assert.Equal(t, "compuestos", f.productType(t, mesa.ID))

	empty := []dto.MaterialItemRequest{}
	_, err = f.uc.Update(f.ctx, pata.ID, dto.UpdateProductRequest{Materials: &empty})
	require.NoError(t, err)
	assert.Equal(t, "insumos", f.productType(t, pata.ID))
	assert.Equal(t, "sencillos", f.productType(t, mesa.ID))
}

func TestProductUpdate_ConOrdenesAbiertas(t *testing.T) {
	f := newProductFixture(t)
	tornillo := f.create(t, "TOR-01")
	mesa := f.create(t, "MESA-01", material(tornillo.ID, "2"))
	require.NoError(t, f.orders.Create(f.ctx, &entity.ProductionOrder{
		ID:                        uuid.New().String(),
		ProductID:                 mesa.ID,
		CantidadProductoFabricado: 1,
		OrderState:                entity.OrderStatePorIniciar,
		EndDate:                   time.Now().AddDate(0, 0, 5),
		Responsables:              "Equipo de ensamblaje",
	}))

	bom := []dto.MaterialItemRequest{material(tornillo.ID, "3")}
	_, err := f.uc.Update(f.ctx, mesa.ID, dto.UpdateProductRequest{Materials: &bom})
	assert.ErrorIs(t, err, domain.ErrConflict)

	nombre := "Mesa de comedor"
	updated, err := f.uc.Update(f.ctx, mesa.ID, dto.UpdateProductRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, nombre, updated.Nombre)
}

// lockTrace registra bloqueos de filas y reemplazos de lista de materiales.
type lockTrace struct {
	repository.ProductRepository
	calls *[]string
}

func (r lockTrace) GetForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	*r.calls = append(*r.calls, "lock:"+strings.Join(ids, ","))
	return r.ProductRepository.GetForUpdate(ctx, ids)
}

func (r lockTrace) ReplaceMaterials(ctx context.Context, compoundID string, items []entity.MaterialItem) error {
	*r.calls = append(*r.calls, "replace:"+compoundID)
	return r.ProductRepository.ReplaceMaterials(ctx, compoundID, items)
}

func (r lockTrace) SoftDelete(ctx context.Context, id string) error {
	*r.calls = append(*r.calls, "delete:"+id)
	return r.ProductRepository.SoftDelete(ctx, id)
}

type tracingTxRunner struct {
	inner usecase.TxRunner
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

// Editar la lista o eliminar el producto toma su fila antes de contar órdenes abiertas,
// la misma fila que bloquean las órdenes antes de leer la lista.
func TestProductUpdate_BloqueaElProductoPrimero(t *testing.T) {
	store := memory.NewStore()
	f := &productFixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepository(store),
		orders:    memory.NewProductionOrderRepository(store),
		providers: memory.NewProviderRepository(store),
	}
	var calls []string
	f.uc = usecase.NewProductUseCase(tracingTxRunner{inner: memory.NewTxRunner(store), calls: &calls}, f.products, f.providers, logger.Nop())

	tornillo := f.create(t, "TOR-01")
	clavo := f.create(t, "CLA-01")
	mesa := f.create(t, "MESA-01", material(tornillo.ID, "2"))

	calls = nil
	bom := []dto.MaterialItemRequest{material(clavo.ID, "6")}
	_, err := f.uc.Update(f.ctx, mesa.ID, dto.UpdateProductRequest{Materials: &bom})
	require.NoError(t, err)
	require.Equal(t, []string{"lock:" + mesa.ID, "replace:" + mesa.ID}, calls)

	calls = nil
	require.NoError(t, f.uc.Delete(f.ctx, mesa.ID))
	assert.Equal(t, []string{"lock:" + mesa.ID, "delete:" + mesa.ID}, calls)
}

func TestProductUpdate_NoExiste(t *testing.T) {
	f := newProductFixture(t)
	nombre := "Nuevo nombre"
	_, err := f.uc.Update(f.ctx, uuid.New().String(), dto.UpdateProductRequest{Nombre: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / List
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDelete(t *testing.T) {
	f := newProductFixture(t)
	tornillo := f.create(t, "TOR-01")
	mesa := f.create(t, "MESA-01", material(tornillo.ID, "2"))

	err := f.uc.Delete(f.ctx, tornillo.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "es material de MESA-01")

	require.NoError(t, f.uc.Delete(f.ctx, mesa.ID))
	_, err = f.uc.GetByID(f.ctx, mesa.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.uc.Delete(f.ctx, tornillo.ID), "ya no lo usa ningún producto activo")
	assert.ErrorIs(t, f.uc.Delete(f.ctx, tornillo.ID), domain.ErrNotFound)
}

func TestProductList_Filtros(t *testing.T) {
	f := newProductFixture(t)
	tornillo := f.create(t, "TOR-01")
	f.create(t, "TOR-02")
	f.create(t, "MESA-01", material(tornillo.ID, "2"))

	list, err := f.uc.List(f.ctx, dto.ProductListQuery{Codigo: "tor"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, "TOR-01", list.Items[0].Codigo)

	list, err = f.uc.List(f.ctx, dto.ProductListQuery{ProductType: "sencillos"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "MESA-01", list.Items[0].Codigo)

	list, err = f.uc.List(f.ctx, dto.ProductListQuery{PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 3, list.Page.Total)

	_, err = f.uc.List(f.ctx, dto.ProductListQuery{ProductType: "muebles"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
