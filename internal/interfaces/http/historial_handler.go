package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// HistorialHandler consulta del historial de movimientos.
type HistorialHandler struct {
	uc  *usecase.HistorialUseCase
	log *logger.Logger
}

// NewHistorialHandler construye el handler.
func NewHistorialHandler(uc *usecase.HistorialUseCase, log *logger.Logger) *HistorialHandler {
	return &HistorialHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar historial
// @Description  Más recientes primero. to es inclusivo (se compara contra el día siguiente).
// @Tags         historial
// @Security     Bearer
// @Produce      json
// @Param        product_name         query     string  false  "Nombre del producto (contiene)"
// @Param        product_id           query     string  false  "ID del producto"
// @Param        provider_id          query     string  false  "ID del proveedor"
// @Param        client_id            query     string  false  "ID del cliente"
// @Param        production_order_id  query     string  false  "ID de la orden"
// @Param        action               query     string  false  "INGRESO | EGRESO | VENTA | VARIOS | ORDENPRODUCCION | GASTODEPRODUCCION | INGRESOPORPRODUCCION"
// @Param        from                 query     string  false  "YYYY-MM-DD"
// @Param        to                   query     string  false  "YYYY-MM-DD"
// @Param        limit                query     int     false  "Límite (default 20)"
// @Param        offset               query     int     false  "Desplazamiento"
// @Success      200                  {object}  dto.HistorialListResponse
// @Failure      422                  {object}  dto.ErrorResponse
// @Router       /api/v1/historial [get]
func (h *HistorialHandler) List(c *fiber.Ctx) error {
	var q dto.HistorialListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
