package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
)

// ProductionHandler avance de etapas de producción.
type ProductionHandler struct {
	progress *production.ProgressUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(progress *production.ProgressUseCase) *ProductionHandler {
	return &ProductionHandler{progress: progress}
}

// UpdateStage godoc
// @Summary      Actualizar estado o avance de una etapa
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la etapa"
// @Param        body  body  dto.UpdateStageRequest  true  "status, progress_percentage, notes"
// @Success      200   {object}  dto.UpdateStageResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/stages/{id} [patch]
func (h *ProductionHandler) UpdateStage(c *fiber.Ctx) error {
	var in dto.UpdateStageRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Status == "" {
		return badRequest(c, "VALIDATION", "status es obligatorio")
	}
	res, err := h.progress.UpdateStage(c.UserContext(), c.Params("id"), production.UpdateStageInput{
		Status:             in.Status,
		ProgressPercentage: in.ProgressPercentage,
		Notes:              in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
