package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// StatisticsHandler expone el resumen de estadísticas.
type StatisticsHandler struct {
	uc  *analytics.StatisticsUseCase
	log *logger.Logger
}

// NewStatisticsHandler construye el handler.
func NewStatisticsHandler(uc *analytics.StatisticsUseCase, log *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Estadísticas de producción y ventas
// @Description  Órdenes ejecutadas por mes del año en curso, materiales más consumidos y productos más vendidos.
// @Tags         statistics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/statistics [get]
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetStatistics(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
