package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ProductHandler maneja productos, su lista de materiales y las cargas/descargas de stock.
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	movement *inventory.StockMovementUseCase
	log      *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, movement *inventory.StockMovementUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, movement: movement, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Description  El tipo (insumos, sencillos, compuestos) se deriva de la lista de materiales. Existencia inicia en 0.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "Producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        codigo        query     string  false  "Filtro por código (contiene)"
// @Param        nombre        query     string  false  "Filtro por nombre (contiene)"
// @Param        product_type  query     string  false  "insumos | sencillos | compuestos"
// @Param        limit         query     int     false  "Límite (default 20)"
// @Param        offset        query     int     false  "Desplazamiento"
// @Success      200           {object}  dto.ProductListResponse
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Existencias no se editan aquí. Cambiar materials recalcula el tipo y se rechaza si hay órdenes abiertas.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID del producto"
// @Param        body  body      dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.UpdateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto (lógico)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Charge godoc
// @Summary      Cargar stock
// @Description  Acciones INGRESO o VARIOS. Suma a la existencia y registra el movimiento en el historial.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID del producto"
// @Param        body  body      dto.ChargeRequest  true  "Carga"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id}/charge [patch]
func (h *ProductHandler) Charge(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.ChargeRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.movement.Charge(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Discharge godoc
// @Summary      Descargar stock
// @Description  Acciones EGRESO, VENTA (requiere client_id) o VARIOS. Solo descuenta existencia disponible.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "ID del producto"
// @Param        body  body      dto.DischargeRequest  true  "Descarga"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/products/{id}/discharge [patch]
func (h *ProductHandler) Discharge(c *fiber.Ctx) error {
	id, ok, err := validateID(c)
	if !ok {
		return err
	}
	var in dto.DischargeRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.movement.Discharge(c.Context(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChargeActions godoc
// @Summary      Acciones de carga
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActionResponse
// @Router       /api/v1/products/actions/charge [get]
func (h *ProductHandler) ChargeActions(c *fiber.Ctx) error {
	return c.JSON(h.movement.ChargeActions())
}

// DischargeActions godoc
// @Summary      Acciones de descarga
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActionResponse
// @Router       /api/v1/products/actions/discharge [get]
func (h *ProductHandler) DischargeActions(c *fiber.Ctx) error {
	return c.JSON(h.movement.DischargeActions())
}
