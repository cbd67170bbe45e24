package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos y su lista de materiales.
// Existencia y reservas se manejan vía cargas, descargas y órdenes de producción.
// El tipo de producto se deriva de la lista de materiales.
type ProductUseCase struct {
	txRunner     TxRunner
	repo         repository.ProductRepository
	providerRepo repository.ProviderRepository
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner TxRunner,
	repo repository.ProductRepository,
	providerRepo repository.ProviderRepository,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, providerRepo: providerRepo, log: log}
}

// Create crea un producto con existencia 0, su lista de materiales y sus proveedores.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	items, err := toMaterialItems(in.Materials)
	if err != nil {
		return nil, err
	}
	providerIDs, err := uc.checkProviders(ctx, in.ProviderIDs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:                  uuid.New().String(),
		Codigo:              strings.TrimSpace(in.Codigo),
		Nombre:              strings.TrimSpace(in.Nombre),
		MeasureUnit:         strings.TrimSpace(in.MeasureUnit),
		Existencia:          decimal.Zero,
		ExistenciaReservada: decimal.Zero,
		Planos:              strings.TrimSpace(in.Planos),
		Image:               toImage(in.Image),
		ProviderIDs:         providerIDs,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if product.Codigo == "" || product.Nombre == "" {
		return nil, fmt.Errorf("%w: codigo y nombre son obligatorios", domain.ErrInvalidInput)
	}

	var comps map[string]*entity.Product
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ProductionOrderRepository,
		_ repository.HistorialRepository,
	) error {
		existing, err := productRepo.GetByCodigo(ctx, product.Codigo)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe un producto con codigo %s", domain.ErrDuplicate, product.Codigo)
		}
		comps, err = resolveMaterials(ctx, productRepo, product.ID, items)
		if err != nil {
			return err
		}
		product.ProductType = production.DeriveProductType(values(comps))
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return productRepo.ReplaceMaterials(ctx, product.ID, items)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("codigo", product.Codigo).Str("product_type", string(product.ProductType)).Msg("producto creado")
	return dto.ToProductResponse(product, items, comps), nil
}

// GetByID obtiene un producto con su lista de materiales. ErrNotFound si no existe o fue eliminado.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	bom, err := uc.repo.GetMaterials(ctx, id)
	if err != nil {
		return nil, err
	}
	comps := make(map[string]*entity.Product, len(bom))
	if len(bom) > 0 {
		ids := make([]string, 0, len(bom))
		for _, m := range bom {
			ids = append(ids, m.ComponentID)
		}
		list, err := uc.repo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			comps[c.ID] = c
		}
	}
	return dto.ToProductResponse(product, bom, comps), nil
}

// Update actualiza datos descriptivos, lista de materiales y proveedores.
// La lista de materiales no se puede cambiar mientras el producto tenga órdenes abiertas
// (su reserva se calculó con la lista vigente). Corre con la fila del producto bloqueada. Si cambia el tipo, se recalcula el de los productos que lo usan.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var items []entity.MaterialItem
	if in.Materials != nil {
		var err error
		if items, err = toMaterialItems(*in.Materials); err != nil {
			return nil, err
		}
	}
	var providerIDs []string
	if in.ProviderIDs != nil {
		var err error
		if providerIDs, err = uc.checkProviders(ctx, *in.ProviderIDs); err != nil {
			return nil, err
		}
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.HistorialRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		if in.Codigo != nil {
			p.Codigo = strings.TrimSpace(*in.Codigo)
		}
		if in.Nombre != nil {
			p.Nombre = strings.TrimSpace(*in.Nombre)
		}
		if in.MeasureUnit != nil {
			p.MeasureUnit = strings.TrimSpace(*in.MeasureUnit)
		}
		if in.Planos != nil {
			p.Planos = strings.TrimSpace(*in.Planos)
		}
		if in.Image != nil {
			p.Image = toImage(in.Image)
		}
		typeChanged := false
		if in.Materials != nil {
			open, err := orderRepo.CountOpenByProduct(ctx, id)
			if err != nil {
				return err
			}
			if open > 0 {
				return fmt.Errorf("%w: el producto %s tiene %d órdenes de producción abiertas", domain.ErrConflict, p.Label(), open)
			}
			comps, err := resolveMaterials(ctx, productRepo, id, items)
			if err != nil {
				return err
			}
			newType := production.DeriveProductType(values(comps))
			typeChanged = newType != p.ProductType
			p.ProductType = newType
			if err := productRepo.ReplaceMaterials(ctx, id, items); err != nil {
				return err
			}
		}
		p.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if in.ProviderIDs != nil {
			if err := productRepo.SetProviders(ctx, id, providerIDs); err != nil {
				return err
			}
			p.ProviderIDs = providerIDs
		}
		if typeChanged {
			if err := refreshConsumerTypes(ctx, productRepo, id); err != nil {
				return err
			}
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Msg("producto actualizado")
	return uc.GetByID(ctx, product.ID)
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	filter := repository.ProductFilter{
		Codigo: strings.TrimSpace(q.Codigo),
		Nombre: strings.TrimSpace(q.Nombre),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.ProductType != "" {
		pt := entity.ProductType(q.ProductType)
		if !pt.Valid() {
			return nil, fmt.Errorf("%w: productType inválido %q", domain.ErrInvalidInput, q.ProductType)
		}
		filter.ProductType = pt
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p, nil, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete elimina lógicamente un producto. No se permite si otro producto lo usa como material
// o si tiene órdenes de producción abiertas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.HistorialRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		consumers, err := productRepo.GetConsumers(ctx, id)
		if err != nil {
			return err
		}
		if len(consumers) > 0 {
			return fmt.Errorf("%w: el producto %s es material de %d productos", domain.ErrConflict, p.Label(), len(consumers))
		}
		open, err := orderRepo.CountOpenByProduct(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("%w: el producto %s tiene %d órdenes de producción abiertas", domain.ErrConflict, p.Label(), open)
		}
		return productRepo.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// lockProduct bloquea la fila del producto. Las órdenes de producción toman la misma fila antes de
// leer la lista de materiales, así que el conteo de órdenes abiertas que sigue ya incluye las confirmadas.
func lockProduct(ctx context.Context, productRepo repository.ProductRepository, id string) (*entity.Product, error) {
	locked, err := productRepo.GetForUpdate(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return locked[0], nil
}

// checkProviders verifica que todos los proveedores existan. Se llama fuera de la transacción.
func (uc *ProductUseCase) checkProviders(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := uc.providerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, fmt.Errorf("%w: algunos proveedores no existen", domain.ErrNotFound)
	}
	return ids, nil
}

// resolveMaterials verifica que existan todos los componentes y que la lista no genere ciclos.
func resolveMaterials(ctx context.Context, productRepo repository.ProductRepository, compoundID string, items []entity.MaterialItem) (map[string]*entity.Product, error) {
	comps := make(map[string]*entity.Product, len(items))
	if len(items) == 0 {
		return comps, nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ComponentID)
	}
	list, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		comps[c.ID] = c
	}
	if len(comps) != len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := comps[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMaterialsNotFound, missing)
	}
	err = production.DetectCycle(compoundID, ids, func(id string) ([]string, error) {
		bom, err := productRepo.GetMaterials(ctx, id)
		if err != nil {
			return nil, err
		}
		children := make([]string, 0, len(bom))
		for _, m := range bom {
			children = append(children, m.ComponentID)
		}
		return children, nil
	})
	if err != nil {
		return nil, err
	}
	return comps, nil
}

// refreshConsumerTypes recalcula el tipo de los productos que usan productID, subiendo por el grafo
// mientras haya cambios.
func refreshConsumerTypes(ctx context.Context, productRepo repository.ProductRepository, productID string) error {
	queue := []string{productID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		consumers, err := productRepo.GetConsumers(ctx, id)
		if err != nil {
			return err
		}
		for _, cid := range consumers {
			c, err := productRepo.GetByID(ctx, cid)
			if err != nil {
				return err
			}
			if c == nil {
				continue
			}
			bom, err := productRepo.GetMaterials(ctx, cid)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(bom))
			for _, m := range bom {
				ids = append(ids, m.ComponentID)
			}
			comps, err := productRepo.GetByIDs(ctx, ids)
			if err != nil {
				return err
			}
			newType := production.DeriveProductType(comps)
			if newType == c.ProductType {
				continue
			}
			c.ProductType = newType
			c.UpdatedAt = time.Now()
			if err := productRepo.Update(ctx, c); err != nil {
				return err
			}
			queue = append(queue, cid)
		}
	}
	return nil
}

func toMaterialItems(in []dto.MaterialItemRequest) ([]entity.MaterialItem, error) {
	items := make([]entity.MaterialItem, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, m := range in {
		id := strings.TrimSpace(m.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: cada material requiere product_id", domain.ErrInvalidInput)
		}
		if !m.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad del material %s debe ser mayor a 0", domain.ErrInvalidInput, id)
		}
		if !entity.FitsQuantityScale(m.Quantity) {
			return nil, fmt.Errorf("%w: la cantidad del material %s admite hasta %d decimales", domain.ErrInvalidInput, id, entity.QuantityScale)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: el material %s está repetido", domain.ErrInvalidInput, id)
		}
		seen[id] = true
		items = append(items, entity.MaterialItem{ID: uuid.New().String(), ComponentID: id, Quantity: m.Quantity})
	}
	return items, nil
}

func toImage(in *dto.ProductImageRequest) *entity.ProductImage {
	if in == nil {
		return nil
	}
	return &entity.ProductImage{URI: in.URI, Width: in.Width, Height: in.Height}
}

func values(m map[string]*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
