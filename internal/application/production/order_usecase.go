package production

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	engine "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// OrderUseCase ciclo de vida de las órdenes de producción: creación con reserva de materiales,
// edición en Por iniciar y transiciones de estado con sus efectos sobre el stock y el historial.
// Toda operación que modifica stock corre dentro de TxRunner.Run con las filas bloqueadas (SELECT FOR UPDATE).
type OrderUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	orderRepo     repository.ProductionOrderRepository
	historialRepo repository.HistorialRepository
	now           Clock
	log           *logger.Logger
}

// NewOrderUseCase construye el caso de uso. Si clock es nil usa time.Now.
func NewOrderUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	orderRepo repository.ProductionOrderRepository,
	historialRepo repository.HistorialRepository,
	clock Clock,
	log *logger.Logger,
) *OrderUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &OrderUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		historialRepo: historialRepo,
		now:           clock,
		log:           log,
	}
}

// Create valida la orden, reserva los materiales de todos los componentes y la guarda en Por iniciar.
// Si algún componente no alcanza, no se reserva nada (ErrInsufficientStock).
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateProductionOrderRequest) (*dto.ProductionOrderResponse, error) {
	now := uc.now()
	if err := validateCantidad(in.CantidadProductoFabricado); err != nil {
		return nil, err
	}
	if err := validateResponsables(in.Responsables); err != nil {
		return nil, err
	}
	endDate, err := parseEndDate(in.EndDate, now)
	if err != nil {
		return nil, err
	}

	order := &entity.ProductionOrder{
		ID:                        uuid.New().String(),
		ProductID:                 in.ProductID,
		CantidadProductoFabricado: in.CantidadProductoFabricado,
		OrderState:                entity.OrderStatePorIniciar,
		EndDate:                   endDate,
		Responsables:              strings.TrimSpace(in.Responsables),
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.HistorialRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, in.ProductID)
		if err != nil {
			return err
		}
		product = p
		bom, comps, err := lockComponents(ctx, productRepo, p, nil)
		if err != nil {
			return err
		}
		adjs, err := engine.Reserve(bom, comps, order.CantidadProductoFabricado)
		if err != nil {
			return err
		}
		if err := applyAdjustments(ctx, productRepo, adjs); err != nil {
			return err
		}
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("product_id", order.ProductID).
		Int("cantidad", order.CantidadProductoFabricado).
		Msg("orden de producción creada")
	return toOrderResponse(order, product), nil
}

// Update modifica una orden en Por iniciar. Si cambia la cantidad recalcula la reserva por diferencia:
// reservada - requerido(anterior) + requerido(nuevo).
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateProductionOrderRequest) (*dto.ProductionOrderResponse, error) {
	now := uc.now()
	var endDate *time.Time
	if in.CantidadProductoFabricado != nil {
		if err := validateCantidad(*in.CantidadProductoFabricado); err != nil {
			return nil, err
		}
	}
	if in.Responsables != nil {
		if err := validateResponsables(*in.Responsables); err != nil {
			return nil, err
		}
	}
	if in.EndDate != nil {
		d, err := parseEndDate(*in.EndDate, now)
		if err != nil {
			return nil, err
		}
		endDate = &d
	}

	var (
		order   *entity.ProductionOrder
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		_ repository.HistorialRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden de producción %s", domain.ErrNotFound, id)
		}
		if o.OrderState != entity.OrderStatePorIniciar {
			return fmt.Errorf("%w: la orden está en estado %q", domain.ErrOrderNotEditable, o.OrderState)
		}
		p, err := lockProduct(ctx, productRepo, o.ProductID)
		if err != nil {
			return err
		}
		product = p

		if in.CantidadProductoFabricado != nil && *in.CantidadProductoFabricado != o.CantidadProductoFabricado {
			bom, comps, err := lockComponents(ctx, productRepo, p, o)
			if err != nil {
				return err
			}
			adjs, err := engine.Rebook(bom, comps, o.CantidadProductoFabricado, *in.CantidadProductoFabricado)
			if err != nil {
				return err
			}
			if err := applyAdjustments(ctx, productRepo, adjs); err != nil {
				return err
			}
			o.CantidadProductoFabricado = *in.CantidadProductoFabricado
		}
		if endDate != nil {
			o.EndDate = *endDate
		}
		if in.Responsables != nil {
			o.Responsables = strings.TrimSpace(*in.Responsables)
		}
		o.UpdatedAt = now
		order = o
		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Int("cantidad", order.CantidadProductoFabricado).
		Msg("orden de producción actualizada")
	return toOrderResponse(order, product), nil
}

// ChangeState aplica una transición de la tabla de estados con sus efectos:
// En proceso fija startDate; Cancelada libera la reserva; Ejecutada consume los materiales,
// ingresa el producto fabricado y registra el historial. Todo en una sola transacción.
func (uc *OrderUseCase) ChangeState(ctx context.Context, id string, state string) (*dto.ProductionOrderResponse, error) {
	target, err := entity.ParseOrderState(state)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var (
		order   *entity.ProductionOrder
		product *entity.Product
		from    entity.OrderState
	)
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.ProductionOrderRepository,
		historialRepo repository.HistorialRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden de producción %s", domain.ErrNotFound, id)
		}
		from = o.OrderState
		if err := o.Transition(target, now); err != nil {
			return err
		}
		p, err := lockProduct(ctx, productRepo, o.ProductID)
		if err != nil {
			return err
		}
		product = p

		switch target {
		case entity.OrderStateCancelada:
			if err := uc.cancel(ctx, productRepo, historialRepo, o, p, now); err != nil {
				return err
			}
		case entity.OrderStateEjecutada:
			if err := uc.execute(ctx, productRepo, historialRepo, o, p, now); err != nil {
				return err
			}
		}
		order = o
		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(order.OrderState)).
		Msg("cambio de estado de orden de producción")
	return toOrderResponse(order, product), nil
}

// cancel libera la reserva de todos los componentes y deja una marca en el historial (cantidad 0).
func (uc *OrderUseCase) cancel(
	ctx context.Context,
	productRepo repository.ProductRepository,
	historialRepo repository.HistorialRepository,
	o *entity.ProductionOrder,
	p *entity.Product,
	now time.Time,
) error {
	bom, comps, err := lockComponents(ctx, productRepo, p, o)
	if err != nil {
		return err
	}
	if err := applyAdjustments(ctx, productRepo, engine.Release(bom, comps, o.CantidadProductoFabricado)); err != nil {
		return err
	}
	return historialRepo.Create(ctx, &entity.Historial{
		ID:                uuid.New().String(),
		Action:            entity.ActionOrdenProduccion,
		Cantidad:          decimal.Zero,
		Description:       fmt.Sprintf("Orden de producción cancelada: %d unidades de %s", o.CantidadProductoFabricado, p.Label()),
		ProductID:         &p.ID,
		ProductionOrderID: &o.ID,
		CreatedAt:         now,
	})
}

// execute consume los materiales reservados (una fila GASTODEPRODUCCION por componente), suma la
// cantidad fabricada al producto (INGRESOPORPRODUCCION) y registra la marca ORDENPRODUCCION.
func (uc *OrderUseCase) execute(
	ctx context.Context,
	productRepo repository.ProductRepository,
	historialRepo repository.HistorialRepository,
	o *entity.ProductionOrder,
	p *entity.Product,
	now time.Time,
) error {
	bom, comps, err := lockComponents(ctx, productRepo, p, o)
	if err != nil {
		return err
	}
	adjs, err := engine.Consume(bom, comps, o.CantidadProductoFabricado)
	if err != nil {
		return err
	}
	for _, adj := range adjs {
		if _, err := productRepo.AdjustStock(ctx, adj.ProductID, adj.DeltaExistencia, adj.DeltaReservada); err != nil {
			return err
		}
		componentID := adj.ProductID
		if err := historialRepo.Create(ctx, &entity.Historial{
			ID:                uuid.New().String(),
			Action:            adj.Action,
			Cantidad:          adj.Quantity,
			Description:       adj.Description,
			ProductID:         &componentID,
			ProductionOrderID: &o.ID,
			CreatedAt:         now,
		}); err != nil {
			return err
		}
	}

	fabricado := decimal.NewFromInt(int64(o.CantidadProductoFabricado))
	if _, err := productRepo.AdjustStock(ctx, p.ID, fabricado, decimal.Zero); err != nil {
		return err
	}
	if err := historialRepo.Create(ctx, &entity.Historial{
		ID:                uuid.New().String(),
		Action:            entity.ActionIngresoPorProduccion,
		Cantidad:          fabricado,
		Description:       fmt.Sprintf("Ingreso de %d unidades de %s por orden de producción", o.CantidadProductoFabricado, p.Label()),
		ProductID:         &p.ID,
		ProductionOrderID: &o.ID,
		CreatedAt:         now,
	}); err != nil {
		return err
	}
	return historialRepo.Create(ctx, &entity.Historial{
		ID:                uuid.New().String(),
		Action:            entity.ActionOrdenProduccion,
		Cantidad:          decimal.Zero,
		Description:       fmt.Sprintf("Orden de producción ejecutada: %d unidades de %s", o.CantidadProductoFabricado, p.Label()),
		ProductID:         &p.ID,
		ProductionOrderID: &o.ID,
		CreatedAt:         now,
	})
}

// GetByID obtiene una orden por ID. Devuelve ErrNotFound si no existe.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.ProductionOrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de producción %s", domain.ErrNotFound, id)
	}
	p, err := uc.productRepo.GetByID(ctx, o.ProductID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, p), nil
}

// List lista órdenes con filtros y paginación, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, q dto.ProductionOrderListQuery) (*dto.ProductionOrderListResponse, error) {
	q.DefaultPage()
	filter := repository.ProductionOrderFilter{
		ProductName: strings.TrimSpace(q.ProductName),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.OrderState != "" {
		st, err := entity.ParseOrderState(q.OrderState)
		if err != nil {
			return nil, err
		}
		filter.OrderState = st
	}
	var err error
	if filter.StartDate, err = parseFilterDate(q.StartDate, "startDate"); err != nil {
		return nil, err
	}
	if filter.EndDate, err = parseFilterDate(q.EndDate, "endDate"); err != nil {
		return nil, err
	}
	if filter.RealEndDate, err = parseFilterDate(q.RealEndDate, "realEndDate"); err != nil {
		return nil, err
	}

	orders, total, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	products, err := uc.productsOf(ctx, orders)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductionOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *toOrderResponse(o, products[o.ProductID]))
	}
	return &dto.ProductionOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Historial devuelve las filas del historial asociadas a la orden.
func (uc *OrderUseCase) Historial(ctx context.Context, id string, page dto.PageRequest) (*dto.HistorialListResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de producción %s", domain.ErrNotFound, id)
	}
	page.DefaultPage()
	rows, total, err := uc.historialRepo.List(ctx, repository.HistorialFilter{
		ProductionOrderID: id,
		Limit:             page.Limit,
		Offset:            page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.HistorialResponse, 0, len(rows))
	for _, h := range rows {
		items = append(items, dto.ToHistorialResponse(h))
	}
	return &dto.HistorialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *OrderUseCase) productsOf(ctx context.Context, orders []*entity.ProductionOrder) (map[string]*entity.Product, error) {
	seen := make(map[string]bool, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			ids = append(ids, o.ProductID)
		}
	}
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// lockProduct bloquea la fila del producto a fabricar; debe existir y no estar eliminado.
// Su lista de materiales solo se lee con esa fila tomada, igual que la edita ProductUseCase.Update.
func lockProduct(ctx context.Context, productRepo repository.ProductRepository, id string) (*entity.Product, error) {
	locked, err := productRepo.GetForUpdate(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 || locked[0].IsDeleted() {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return locked[0], nil
}

// lockComponents lee la lista de materiales del producto (ya bloqueado con lockProduct) y bloquea
// las filas de los componentes en orden de id. Al ejecutar la orden incluye al propio producto.
// Verifica que todos los componentes existan (ErrMaterialsNotFound).
func lockComponents(
	ctx context.Context,
	productRepo repository.ProductRepository,
	p *entity.Product,
	o *entity.ProductionOrder,
) ([]entity.MaterialItem, []*entity.Product, error) {
	bom, err := productRepo.GetMaterials(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(bom) == 0 {
		return nil, nil, fmt.Errorf("%w: el producto %s no tiene lista de materiales", domain.ErrInvalidInput, p.Label())
	}
	ids := make([]string, 0, len(bom)+1)
	seen := make(map[string]bool, len(bom)+1)
	for _, m := range bom {
		if !seen[m.ComponentID] {
			seen[m.ComponentID] = true
			ids = append(ids, m.ComponentID)
		}
	}
	componentCount := len(ids)
	if o != nil && o.OrderState == entity.OrderStateEjecutada && !seen[p.ID] {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	locked, err := productRepo.GetForUpdate(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	comps := make([]*entity.Product, 0, componentCount)
	for _, c := range locked {
		if seen[c.ID] {
			comps = append(comps, c)
		}
	}
	if len(comps) != componentCount {
		found := make(map[string]bool, len(comps))
		for _, c := range comps {
			found[c.ID] = true
		}
		var missing []string
		for _, m := range bom {
			if !found[m.ComponentID] {
				missing = append(missing, m.ComponentID)
			}
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrMaterialsNotFound, missing)
	}
	return bom, comps, nil
}

// applyAdjustments aplica los deltas calculados por el motor de reservas.
func applyAdjustments(ctx context.Context, productRepo repository.ProductRepository, adjs []engine.ComponentAdjustment) error {
	for _, adj := range adjs {
		if _, err := productRepo.AdjustStock(ctx, adj.ProductID, adj.DeltaExistencia, adj.DeltaReservada); err != nil {
			return err
		}
	}
	return nil
}

func parseFilterDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return &d, nil
}

func toOrderResponse(o *entity.ProductionOrder, p *entity.Product) *dto.ProductionOrderResponse {
	if o == nil {
		return nil
	}
	out := &dto.ProductionOrderResponse{
		ID:                        o.ID,
		ProductID:                 o.ProductID,
		CantidadProductoFabricado: o.CantidadProductoFabricado,
		OrderState:                string(o.OrderState),
		StartDate:                 o.StartDate,
		EndDate:                   o.EndDate,
		RealEndDate:               o.RealEndDate,
		Responsables:              o.Responsables,
		CreatedAt:                 o.CreatedAt,
		UpdatedAt:                 o.UpdatedAt,
	}
	if p != nil {
		out.ProductCodigo = p.Codigo
		out.ProductNombre = p.Nombre
	}
	return out
}
