package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ProductionOrderHandler maneja las órdenes de producción.
type ProductionOrderHandler struct {
	uc  *production.OrderUseCase
	log *logger.Logger
}

// NewProductionOrderHandler construye el handler.
func NewProductionOrderHandler(uc *production.OrderUseCase, log *logger.Logger) *ProductionOrderHandler {
	return &ProductionOrderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear orden de producción
// @Description  Reserva los materiales de la lista del producto. Si algún componente no alcanza no se reserva nada.
// @Tags         production-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductionOrderRequest  true  "Orden"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/production-orders [post]
func (h *ProductionOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar orden de producción
// @Description  Solo en estado Por iniciar. Cambiar la cantidad reajusta las reservas por la diferencia.
// @Tags         production-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID de la orden"
// @Param        body  body      dto.UpdateProductionOrderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/production-orders/{id} [put]
func (h *ProductionOrderHandler) Update(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.UpdateProductionOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeState godoc
// @Summary      Cambiar estado de la orden
// @Description  PorIniciar → EnProceso | Cancelada; EnProceso → Ejecutada. Cualquier otra transición devuelve 400.
// @Tags         production-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID de la orden"
// @Param        body  body      dto.ChangeOrderStateRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/production-orders/{id}/state [patch]
func (h *ProductionOrderHandler) ChangeState(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.ChangeOrderStateRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.ChangeState(c.Context(), id, in.OrderState)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de producción
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/production-orders/{id} [get]
func (h *ProductionOrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        product_name   query     string  false  "Nombre del producto (contiene)"
// @Param        order_state    query     string  false  "PorIniciar | EnProceso | Ejecutada | Cancelada"
// @Param        start_date     query     string  false  "YYYY-MM-DD"
// @Param        end_date       query     string  false  "YYYY-MM-DD"
// @Param        real_end_date  query     string  false  "YYYY-MM-DD"
// @Param        limit          query     int     false  "Límite (default 20)"
// @Param        offset         query     int     false  "Desplazamiento"
// @Success      200            {object}  dto.ProductionOrderListResponse
// @Router       /api/v1/production-orders [get]
func (h *ProductionOrderHandler) List(c *fiber.Ctx) error {
	var q dto.ProductionOrderListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Historial godoc
// @Summary      Historial de una orden
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID de la orden"
// @Param        limit   query     int     false  "Límite (default 20)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.HistorialListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/v1/production-orders/{id}/historial [get]
func (h *ProductionOrderHandler) Historial(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.Historial(c.Context(), id, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// States godoc
// @Summary      Estados de orden
// @Tags         production-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActionResponse
// @Router       /api/v1/production-orders/states [get]
func (h *ProductionOrderHandler) States(c *fiber.Ctx) error {
	return c.JSON(production.StateOptions())
}
